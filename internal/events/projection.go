package events

import (
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// joinRoster adds actor to the participant roster, or refreshes the stored
// display name if they are already on it.
func joinRoster(ev *models.Event, actor models.Actor, now time.Time) {
	if p := ev.Participant(actor.UserID); p != nil {
		if actor.Name != "" {
			p.UserName = actor.Name
		}
		return
	}
	ev.Participants = append(ev.Participants, models.Participant{
		UserID:      actor.UserID,
		UserName:    actor.Name,
		IsOrganizer: ev.IsCreator(actor.UserID),
		JoinedAt:    now,
	})
}

// ProjectParticipants derives the display view of the roster. HasVoted is
// true when the user appears in any vote ledger. DateResponse is the
// user's answer on the finalized option once there is one, and the user's
// most recent answer on any option before that.
func ProjectParticipants(ev *models.Event) []models.ParticipantView {
	voted := make(map[string]bool)
	for _, ledger := range ev.ActivityVotes {
		for _, v := range ledger {
			voted[v.UserID] = true
		}
	}

	views := make([]models.ParticipantView, 0, len(ev.Participants))
	for _, p := range ev.Participants {
		views = append(views, models.ParticipantView{
			Participant:  p,
			HasVoted:     voted[p.UserID],
			DateResponse: countedResponse(ev, p.UserID),
		})
	}
	return views
}

// countedResponse ignores the priority flag. Ties on RespondedAt go to the
// later option.
func countedResponse(ev *models.Event, userID string) models.ResponseType {
	if ev.FinalDateOptionID != "" {
		if opt := ev.DateOption(ev.FinalDateOptionID); opt != nil {
			if r := opt.Response(userID); r != nil {
				return r.Response
			}
		}
		return ""
	}
	var latest *models.DateResponse
	for i := range ev.DateOptions {
		r := ev.DateOptions[i].Response(userID)
		if r == nil {
			continue
		}
		if latest == nil || !r.RespondedAt.Before(latest.RespondedAt) {
			latest = r
		}
	}
	if latest == nil {
		return ""
	}
	return latest.Response
}
