package events

import (
	"context"
	"strings"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

const (
	DefaultCommentLimit = 50
	MaxCommentLimit     = 100
	MaxCommentLength    = 2000
)

// ListComments returns the event's comments, newest first, and moves the
// viewer's read mark to now.
func (s *Service) ListComments(ctx context.Context, actor models.Actor, ref string, q models.CommentQuery) ([]*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ev, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if q.Phase != "" && !q.Phase.Valid() {
		return nil, apperrors.Newf(apperrors.CodeBadRequest, "unknown phase %q", q.Phase)
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultCommentLimit
	case q.Limit > MaxCommentLimit:
		q.Limit = MaxCommentLimit
	}

	comments, err := s.comments.ListComments(ctx, ev.ID, q)
	if err != nil {
		return nil, err
	}
	if err := s.comments.MarkCommentsRead(ctx, ev.ID, actor.UserID, s.cfg.Now()); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment on the event. Any participant.
func (s *Service) AddComment(ctx context.Context, actor models.Actor, ref, content string, phase models.Phase) (*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ev, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "content is required")
	}
	if len([]rune(content)) > MaxCommentLength {
		return nil, apperrors.Newf(apperrors.CodeBadRequest, "content must be at most %d characters", MaxCommentLength)
	}
	if phase != "" && !phase.Valid() {
		return nil, apperrors.Newf(apperrors.CodeBadRequest, "unknown phase %q", phase)
	}

	c := &models.Comment{
		ID:        s.cfg.NewID(),
		EventID:   ev.ID,
		UserID:    actor.UserID,
		UserName:  actor.Name,
		Content:   content,
		Phase:     phase,
		CreatedAt: s.cfg.Now(),
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *Service) DeleteComment(ctx context.Context, actor models.Actor, ref, commentID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	ev, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if c.EventID != ev.ID {
		return apperrors.New(apperrors.CodeNotFound, "comment not found")
	}
	if c.UserID != actor.UserID {
		return apperrors.New(apperrors.CodeForbidden, "Only the author can delete this comment")
	}
	return s.comments.DeleteComment(ctx, commentID)
}
