package database

import (
	"context"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// CreateComment inserts a comment on an event.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_comments(id, event_id, user_id, user_name, content, phase, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.EventID, c.UserID, c.UserName, c.Content, c.Phase, c.CreatedAt.UTC())
	return storeErr(err, "comment")
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	c := &models.Comment{}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, user_name, content, phase, created_at
		FROM event_comments
		WHERE id = ?`, id)
	if err := row.Scan(&c.ID, &c.EventID, &c.UserID, &c.UserName, &c.Content, &c.Phase, &c.CreatedAt); err != nil {
		return nil, storeErr(err, "comment")
	}
	return c, nil
}

// ListComments returns one page of an event's comments, newest first.
func (s *Store) ListComments(ctx context.Context, eventID string, q models.CommentQuery) ([]*models.Comment, error) {
	query := `
		SELECT id, event_id, user_id, user_name, content, phase, created_at
		FROM event_comments
		WHERE event_id = ?`
	args := []any{eventID}
	if q.Phase != "" {
		query += ` AND phase = ?`
		args = append(args, q.Phase)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Skip)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.EventID, &c.UserID, &c.UserName, &c.Content, &c.Phase, &c.CreatedAt); err != nil {
			return nil, storeErr(err, "comment")
		}
		comments = append(comments, c)
	}
	return comments, storeErr(rows.Err(), "comment")
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_comments WHERE id = ?`, id)
	if err != nil {
		return storeErr(err, "comment")
	}
	if n, err := res.RowsAffected(); err != nil {
		return storeErr(err, "comment")
	} else if n == 0 {
		return apperrors.New(apperrors.CodeNotFound, "comment not found")
	}
	return nil
}

// MarkCommentsRead moves the user's read mark for the event to at.
func (s *Store) MarkCommentsRead(ctx context.Context, eventID, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comment_reads(event_id, user_id, last_read_at)
		VALUES(?, ?, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET
			last_read_at = excluded.last_read_at`,
		eventID, userID, at.UTC())
	return storeErr(err, "read mark")
}

// CountUnreadComments counts comments by other users written after the
// user's read mark. Without a mark every such comment is unread.
func (s *Store) CountUnreadComments(ctx context.Context, eventID, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM event_comments c
		LEFT JOIN comment_reads r ON r.event_id = c.event_id AND r.user_id = ?
		WHERE c.event_id = ? AND c.user_id <> ?
			AND (r.last_read_at IS NULL OR c.created_at > r.last_read_at)`,
		userID, eventID, userID).Scan(&n)
	if err != nil {
		return 0, storeErr(err, "comment")
	}
	return n, nil
}
