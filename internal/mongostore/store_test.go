package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

var baseTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleEvent(id, code string) *models.Event {
	pledge := 20.0
	return &models.Event{
		ID:                  id,
		ShortCode:           code,
		RoomID:              "room-1",
		Name:                "Team day",
		Phase:               models.PhaseVoting,
		BudgetType:          models.BudgetTotal,
		TimeWindow:          &models.TimeWindow{Type: "season", Value: "summer"},
		CreatedByUserID:     "owner",
		CreatedAt:           baseTime,
		UpdatedAt:           baseTime,
		ProposedActivityIDs: []string{"act.1", "act-2"},
		ExcludedActivityIDs: []string{"act-2"},
		ActivityVotes: map[string][]models.Vote{
			"act.1": {
				{UserID: "bob", UserName: "Bob", Value: models.VoteDown, VotedAt: baseTime},
				{UserID: "alice", UserName: "Alice", Value: models.VoteUp, VotedAt: baseTime.Add(time.Minute)},
			},
		},
		DateOptions: []models.DateOption{
			{ID: "d1", Date: baseTime.Truncate(24 * time.Hour), StartTime: "10:00", Responses: []models.DateResponse{
				{UserID: "alice", UserName: "Alice", Response: models.ResponseYes, IsPriority: true, Contribution: &pledge, RespondedAt: baseTime},
			}},
			{ID: "d2", Date: baseTime.Truncate(24 * time.Hour).AddDate(0, 0, 7)},
		},
		Participants: []models.Participant{
			{UserID: "owner", UserName: "Olivia", IsOrganizer: true, JoinedAt: baseTime},
		},
		Version: 1,
	}
}

func TestEventDocumentMapping(t *testing.T) {
	ev := sampleEvent("ev-1", "ABC-DEF-GHJ")

	doc := toEventDocument(ev)
	require.Len(t, doc.ActivityVotes, 1)
	assert.Equal(t, "act.1", doc.ActivityVotes[0].ActivityID)
	assert.Equal(t, "down", doc.ActivityVotes[0].Votes[0].Vote)
	require.NotNil(t, doc.TimeWindow)
	assert.Equal(t, "summer", doc.TimeWindow.Value)

	assert.Equal(t, ev, doc.toModel())

	empty := toEventDocument(&models.Event{ID: "ev-2"})
	assert.NotNil(t, empty.ProposedActivityIDs)
	assert.NotNil(t, empty.ActivityVotes)
	assert.NotNil(t, empty.DateOptions)
	assert.Nil(t, empty.TimeWindow)
	assert.Nil(t, empty.toModel().TimeWindow)
}

// connectTestStore runs against a real server when EVENTHORIZON_TEST_MONGO_URI
// is set, using a throwaway database.
func connectTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("EVENTHORIZON_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("EVENTHORIZON_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	dbName := "eventhorizon_test_" + uuid.NewString()[:8]
	s, err := Connect(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.client.Database(dbName).Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestStoreAgainstMongo(t *testing.T) {
	s := connectTestStore(t)
	ctx := context.Background()

	ev := sampleEvent("ev-1", "ABC-DEF-GHJ")
	require.NoError(t, s.CreateEvent(ctx, ev))
	requireCode(t, s.CreateEvent(ctx, sampleEvent("ev-2", "ABC-DEF-GHJ")), apperrors.CodeConflict)

	got, err := s.GetEventByShortCode(ctx, "ABC-DEF-GHJ")
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	taken, err := s.ShortCodeTaken(ctx, "ABC-DEF-GHJ")
	require.NoError(t, err)
	assert.True(t, taken)

	got.Phase = models.PhaseScheduling
	got.Version = 2
	require.NoError(t, s.SaveEvent(ctx, got, 1))
	requireCode(t, s.SaveEvent(ctx, got, 1), apperrors.CodeConflict)

	evs, err := s.ListEventsByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, models.PhaseScheduling, evs[0].Phase)

	c := &models.Comment{ID: "c-1", EventID: "ev-1", UserID: "bob", Content: "hi", CreatedAt: baseTime}
	require.NoError(t, s.CreateComment(ctx, c))
	n, err := s.CountUnreadComments(ctx, "ev-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, s.MarkCommentsRead(ctx, "ev-1", "alice", baseTime.Add(time.Minute)))
	n, err = s.CountUnreadComments(ctx, "ev-1", "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := s.ListComments(ctx, "ev-1", models.CommentQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteEvent(ctx, "ev-1"))
	_, err = s.GetComment(ctx, "c-1")
	requireCode(t, err, apperrors.CodeNotFound)
	requireCode(t, s.DeleteEvent(ctx, "ev-1"), apperrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.CodeOf(err), "error: %v", err)
}
