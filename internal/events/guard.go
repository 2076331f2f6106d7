package events

import (
	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// Action names a restricted mutation for the authorization guard.
type Action string

const (
	ActionUpdateEvent      Action = "update this event"
	ActionDeleteEvent      Action = "delete this event"
	ActionSetPhase         Action = "change the phase"
	ActionModifyProposals  Action = "modify proposals"
	ActionExcludeActivity  Action = "exclude activities"
	ActionIncludeActivity  Action = "include activities"
	ActionSelectActivity   Action = "select the activity"
	ActionAddDateOption    Action = "add date options"
	ActionDeleteDateOption Action = "delete date options"
	ActionFinalizeDate     Action = "finalize the date"
	ActionRecordInvites    Action = "record invitations"
	ActionRecordReminder   Action = "record reminders"
)

// Can reports whether actor may perform a creator-only action on ev.
// Every restricted action has the same rule: only the event's creator.
func Can(actor models.Actor, _ Action, ev *models.Event) bool {
	return ev.IsCreator(actor.UserID)
}

// authorize runs the guard before any mutation is applied.
func authorize(actor models.Actor, action Action, ev *models.Event) error {
	if !Can(actor, action, ev) {
		return apperrors.Newf(apperrors.CodeForbidden, "Only the event creator can %s", action)
	}
	return nil
}

func requireActor(actor models.Actor) error {
	if actor.UserID == "" {
		return apperrors.New(apperrors.CodeUnauthorized, "authentication required")
	}
	return nil
}
