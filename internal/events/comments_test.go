package events

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

func TestComments(t *testing.T) {
	svc, _ := newTestService(t)
	ev := createTestEvent(t, svc)
	ctx := context.Background()

	first, err := svc.AddComment(ctx, alice, ev.ID, "  Bowling?  ", models.PhaseProposal)
	require.NoError(t, err)
	assert.Equal(t, "Bowling?", first.Content)
	_, err = svc.AddComment(ctx, bob, ev.ShortCode, "Karaoke!", models.PhaseVoting)
	require.NoError(t, err)

	got, err := svc.GetEvent(ctx, owner, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UnreadMessageCount)
	got, err = svc.GetEvent(ctx, alice, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UnreadMessageCount, "own comments are never unread")

	list, err := svc.ListComments(ctx, owner, ev.ID, models.CommentQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Karaoke!", list[0].Content)

	got, err = svc.GetEvent(ctx, owner, ev.ID)
	require.NoError(t, err)
	assert.Zero(t, got.UnreadMessageCount)

	list, err = svc.ListComments(ctx, owner, ev.ID, models.CommentQuery{Phase: models.PhaseProposal})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	list, err = svc.ListComments(ctx, owner, ev.ID, models.CommentQuery{Skip: 1, Limit: 500})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestAddCommentValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ev := createTestEvent(t, svc)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, alice, ev.ID, "   ", "")
	requireCode(t, err, apperrors.CodeBadRequest)
	_, err = svc.AddComment(ctx, alice, ev.ID, strings.Repeat("x", MaxCommentLength+1), "")
	requireCode(t, err, apperrors.CodeBadRequest)
	_, err = svc.AddComment(ctx, alice, ev.ID, "hi", "archived")
	requireCode(t, err, apperrors.CodeBadRequest)
	_, err = svc.AddComment(ctx, models.Actor{}, ev.ID, "hi", "")
	requireCode(t, err, apperrors.CodeUnauthorized)
	_, err = svc.ListComments(ctx, alice, ev.ID, models.CommentQuery{Phase: "archived"})
	requireCode(t, err, apperrors.CodeBadRequest)
}

func TestDeleteComment(t *testing.T) {
	svc, _ := newTestService(t)
	ev := createTestEvent(t, svc)
	other := createTestEvent(t, svc)
	ctx := context.Background()

	c, err := svc.AddComment(ctx, alice, ev.ID, "hello", "")
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, owner, ev.ID, c.ID)
	requireCode(t, err, apperrors.CodeForbidden)
	err = svc.DeleteComment(ctx, alice, other.ID, c.ID)
	requireCode(t, err, apperrors.CodeNotFound)

	require.NoError(t, svc.DeleteComment(ctx, alice, ev.ID, c.ID))
	err = svc.DeleteComment(ctx, alice, ev.ID, c.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}
