package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

func TestProjectParticipants(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &models.Event{
		CreatedByUserID: owner.UserID,
		DateOptions: []models.DateOption{
			{ID: "d1", Responses: []models.DateResponse{
				{UserID: alice.UserID, Response: models.ResponseNo, RespondedAt: now.Add(time.Hour)},
				{UserID: bob.UserID, Response: models.ResponseYes, IsPriority: true, RespondedAt: now},
			}},
			{ID: "d2", Responses: []models.DateResponse{
				{UserID: alice.UserID, Response: models.ResponseMaybe, IsPriority: true, RespondedAt: now},
			}},
		},
	}
	joinRoster(ev, owner, now)
	require.NoError(t, voteOnActivity(ev, alice, "act-1", models.VoteUp, now))
	joinRoster(ev, bob, now)

	views := ProjectParticipants(ev)
	require.Len(t, views, 3)

	assert.Equal(t, owner.UserID, views[0].UserID)
	assert.True(t, views[0].IsOrganizer)
	assert.False(t, views[0].HasVoted)
	assert.Empty(t, views[0].DateResponse)

	assert.True(t, views[1].HasVoted)
	assert.Equal(t, models.ResponseNo, views[1].DateResponse, "latest answer wins over the priority option")

	assert.False(t, views[2].HasVoted)
	assert.Equal(t, models.ResponseYes, views[2].DateResponse)

	t.Run("final option wins once set", func(t *testing.T) {
		ev.FinalDateOptionID = "d2"
		defer func() { ev.FinalDateOptionID = "" }()
		views := ProjectParticipants(ev)
		assert.Empty(t, views[0].DateResponse)
		assert.Equal(t, models.ResponseMaybe, views[1].DateResponse)
		assert.Empty(t, views[2].DateResponse, "no answer on the final option")
	})
}

func TestProjectParticipantsIgnoresPriorityFlag(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &models.Event{CreatedByUserID: owner.UserID}
	ev.DateOptions = []models.DateOption{{ID: "d1"}}

	require.NoError(t, respondToDateOption(ev, alice, "d1", DateResponseInput{Response: models.ResponseNo, IsPriority: true}, now))
	require.NoError(t, respondToDateOption(ev, bob, "d1", DateResponseInput{Response: models.ResponseYes}, now))

	views := ProjectParticipants(ev)
	require.Len(t, views, 2)
	assert.Equal(t, models.ResponseNo, views[0].DateResponse)
	assert.Equal(t, models.ResponseYes, views[1].DateResponse)

	t.Run("equal timestamps go to the later option", func(t *testing.T) {
		ev.DateOptions = append(ev.DateOptions, models.DateOption{ID: "d2"})
		require.NoError(t, respondToDateOption(ev, bob, "d2", DateResponseInput{Response: models.ResponseMaybe}, now))
		assert.Equal(t, models.ResponseMaybe, ProjectParticipants(ev)[1].DateResponse)
	})
}

func TestJoinRosterRefreshesName(t *testing.T) {
	ev := &models.Event{CreatedByUserID: owner.UserID}
	now := time.Now()
	joinRoster(ev, alice, now)
	joinRoster(ev, models.Actor{UserID: alice.UserID, Name: "Alice B."}, now.Add(time.Hour))
	joinRoster(ev, models.Actor{UserID: alice.UserID}, now.Add(2*time.Hour))

	require.Len(t, ev.Participants, 1)
	assert.Equal(t, "Alice B.", ev.Participants[0].UserName)
	assert.Equal(t, now, ev.Participants[0].JoinedAt)
	assert.False(t, ev.Participants[0].IsOrganizer)
}
