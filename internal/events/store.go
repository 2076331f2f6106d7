package events

import (
	"context"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// Store is durable keyed storage for Event aggregates. Implementations
// return *apperrors.Error values: NOT_FOUND for missing events and
// CONFLICT when SaveEvent's expected version no longer matches.
type Store interface {
	CreateEvent(ctx context.Context, ev *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetEventByShortCode(ctx context.Context, code string) (*models.Event, error)
	ListEventsByRoom(ctx context.Context, roomID string) ([]*models.Event, error)
	// SaveEvent replaces the stored aggregate if its version still equals
	// expectedVersion. ev.Version holds the new version.
	SaveEvent(ctx context.Context, ev *models.Event, expectedVersion int64) error
	// DeleteEvent removes the event, its collections and its comments.
	DeleteEvent(ctx context.Context, id string) error
	ShortCodeTaken(ctx context.Context, code string) (bool, error)
}

// CommentStore keeps event comments and per-user read marks.
type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, eventID string, q models.CommentQuery) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	MarkCommentsRead(ctx context.Context, eventID, userID string, at time.Time) error
	// CountUnreadComments counts comments by other users newer than the
	// user's read mark.
	CountUnreadComments(ctx context.Context, eventID, userID string) (int, error)
}

// RoomDirectory answers whether a room exists. Room membership itself is
// managed by another service.
type RoomDirectory interface {
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// AssetCleaner removes externally hosted assets such as event avatars.
type AssetCleaner interface {
	DeleteAsset(ctx context.Context, url string) error
}
