package events

import (
	"strings"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// NewDateOption is the input for adding a date option. Date is
// YYYY-MM-DD or an RFC 3339 timestamp; StartTime and EndTime are optional
// HH:MM values.
type NewDateOption struct {
	Date      string
	StartTime string
	EndTime   string
}

// DateResponseInput is one user's answer to a date option.
type DateResponseInput struct {
	Response     models.ResponseType
	IsPriority   bool
	Contribution *float64
	Note         string
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseOptionDate accepts a plain date or a full RFC 3339 timestamp and
// keeps only the calendar day, as UTC midnight.
func parseOptionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperrors.New(apperrors.CodeBadRequest, "date is required")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, apperrors.New(apperrors.CodeBadRequest, "invalid date format, use YYYY-MM-DD or RFC3339")
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func addDateOption(ev *models.Event, actor models.Actor, in NewDateOption, id string, maxOptions int) error {
	if err := authorize(actor, ActionAddDateOption, ev); err != nil {
		return err
	}
	date, err := parseOptionDate(in.Date)
	if err != nil {
		return err
	}
	if in.EndTime != "" && in.StartTime == "" {
		return apperrors.New(apperrors.CodeBadRequest, "End time requires a start time")
	}
	for _, t := range []string{in.StartTime, in.EndTime} {
		if t == "" {
			continue
		}
		if _, err := time.Parse(clockLayout, t); err != nil {
			return apperrors.Newf(apperrors.CodeBadRequest, "invalid time %q, use HH:MM", t)
		}
	}
	if maxOptions > 0 && len(ev.DateOptions) >= maxOptions {
		return apperrors.Newf(apperrors.CodeBadRequest, "Maximum %d date options allowed", maxOptions)
	}

	ev.DateOptions = append(ev.DateOptions, models.DateOption{
		ID:        id,
		Date:      date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	})
	return nil
}

// deleteDateOption removes the option together with its responses. A
// finalized option that is deleted also clears FinalDateOptionID.
func deleteDateOption(ev *models.Event, actor models.Actor, optionID string) error {
	if err := authorize(actor, ActionDeleteDateOption, ev); err != nil {
		return err
	}
	for i := range ev.DateOptions {
		if ev.DateOptions[i].ID != optionID {
			continue
		}
		ev.DateOptions = append(ev.DateOptions[:i], ev.DateOptions[i+1:]...)
		if ev.FinalDateOptionID == optionID {
			ev.FinalDateOptionID = ""
		}
		return nil
	}
	return apperrors.New(apperrors.CodeNotFound, "date option not found")
}

// respondToDateOption upserts actor's response on one option. When the
// response is a priority, the user's priority flag is first cleared on
// every other option of the event.
func respondToDateOption(ev *models.Event, actor models.Actor, optionID string, in DateResponseInput, now time.Time) error {
	if !in.Response.Valid() {
		return apperrors.Newf(apperrors.CodeBadRequest, "invalid response %q", in.Response)
	}
	if in.Contribution != nil && *in.Contribution < 0 {
		return apperrors.New(apperrors.CodeBadRequest, "contribution must not be negative")
	}
	target := ev.DateOption(optionID)
	if target == nil {
		return apperrors.New(apperrors.CodeNotFound, "date option not found")
	}

	if in.IsPriority {
		for i := range ev.DateOptions {
			if ev.DateOptions[i].ID == optionID {
				continue
			}
			if r := ev.DateOptions[i].Response(actor.UserID); r != nil {
				r.IsPriority = false
			}
		}
	}

	resp := models.DateResponse{
		UserID:       actor.UserID,
		UserName:     actor.Name,
		Response:     in.Response,
		IsPriority:   in.IsPriority,
		Contribution: in.Contribution,
		Note:         in.Note,
		RespondedAt:  now,
	}
	if existing := target.Response(actor.UserID); existing != nil {
		*existing = resp
	} else {
		target.Responses = append(target.Responses, resp)
	}
	joinRoster(ev, actor, now)
	return nil
}

// finalizeDateOption fixes the date and moves the event to info. The option
// must belong to the event.
func finalizeDateOption(ev *models.Event, actor models.Actor, optionID string) error {
	if err := authorize(actor, ActionFinalizeDate, ev); err != nil {
		return err
	}
	if optionID == "" {
		return apperrors.New(apperrors.CodeBadRequest, "date_option_id is required")
	}
	if ev.DateOption(optionID) == nil {
		return apperrors.New(apperrors.CodeNotFound, "date option not found")
	}
	ev.FinalDateOptionID = optionID
	enterInfo(ev)
	return nil
}
