package events

import (
	"slices"
	"strings"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// removeProposedActivity hard-deletes an activity from the event: the
// proposal, the exclusion and the whole vote ledger go together.
func removeProposedActivity(ev *models.Event, actor models.Actor, activityID string) error {
	if err := authorize(actor, ActionModifyProposals, ev); err != nil {
		return err
	}
	if err := validateActivityID(activityID); err != nil {
		return err
	}
	ev.ProposedActivityIDs = without(ev.ProposedActivityIDs, activityID)
	ev.ExcludedActivityIDs = without(ev.ExcludedActivityIDs, activityID)
	delete(ev.ActivityVotes, activityID)
	return nil
}

// excludeActivity hides a proposed activity from voting. Votes and the
// proposal itself are kept; excluded ids stay a subset of proposed ids.
func excludeActivity(ev *models.Event, actor models.Actor, activityID string) error {
	if err := authorize(actor, ActionExcludeActivity, ev); err != nil {
		return err
	}
	if err := validateActivityID(activityID); err != nil {
		return err
	}
	if !ev.IsProposed(activityID) {
		return apperrors.New(apperrors.CodeNotFound, "activity is not proposed for this event")
	}
	if !ev.IsExcluded(activityID) {
		ev.ExcludedActivityIDs = append(ev.ExcludedActivityIDs, activityID)
	}
	return nil
}

func includeActivity(ev *models.Event, actor models.Actor, activityID string) error {
	if err := authorize(actor, ActionIncludeActivity, ev); err != nil {
		return err
	}
	if err := validateActivityID(activityID); err != nil {
		return err
	}
	ev.ExcludedActivityIDs = without(ev.ExcludedActivityIDs, activityID)
	return nil
}

// voteOnActivity records actor's vote, replacing any earlier vote by the
// same user on that activity. Open to every participant.
func voteOnActivity(ev *models.Event, actor models.Actor, activityID string, value models.VoteValue, now time.Time) error {
	if err := validateActivityID(activityID); err != nil {
		return err
	}
	if !value.Valid() {
		return apperrors.Newf(apperrors.CodeBadRequest, "invalid vote %q", value)
	}
	if ev.ActivityVotes == nil {
		ev.ActivityVotes = make(map[string][]models.Vote)
	}
	ev.ActivityVotes[activityID] = upsertVote(ev.ActivityVotes[activityID], models.Vote{
		UserID:   actor.UserID,
		UserName: actor.Name,
		Value:    value,
		VotedAt:  now,
	})
	joinRoster(ev, actor, now)
	return nil
}

// upsertVote drops every vote by v.UserID and appends v, so the newest vote
// sits at the end of the ledger.
func upsertVote(ledger []models.Vote, v models.Vote) []models.Vote {
	ledger = slices.DeleteFunc(ledger, func(existing models.Vote) bool {
		return existing.UserID == v.UserID
	})
	return append(ledger, v)
}

// selectWinningActivity picks the activity and moves the event to
// scheduling, whatever phase it was in.
func selectWinningActivity(ev *models.Event, actor models.Actor, activityID string) error {
	if err := authorize(actor, ActionSelectActivity, ev); err != nil {
		return err
	}
	if err := validateActivityID(activityID); err != nil {
		return err
	}
	ev.ChosenActivityID = activityID
	enterScheduling(ev)
	return nil
}

func validateActivityID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeBadRequest, "activity_id is required")
	}
	return nil
}

// normalizeActivityIDs trims ids and drops blanks and duplicates, keeping
// first-seen order.
func normalizeActivityIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}
