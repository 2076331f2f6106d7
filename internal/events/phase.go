package events

import (
	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// setPhase overwrites the phase. Any known phase may be set from any other;
// the lifecycle order is not enforced.
func setPhase(ev *models.Event, actor models.Actor, phase models.Phase) error {
	if err := authorize(actor, ActionSetPhase, ev); err != nil {
		return err
	}
	if !phase.Valid() {
		return apperrors.Newf(apperrors.CodeBadRequest, "unknown phase %q", phase)
	}
	ev.Phase = phase
	return nil
}

// The two derived transitions. Neither checks the current phase.

func enterScheduling(ev *models.Event) {
	ev.Phase = models.PhaseScheduling
}

func enterInfo(ev *models.Event) {
	ev.Phase = models.PhaseInfo
}
