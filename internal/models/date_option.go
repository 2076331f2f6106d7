package models

import "time"

// ResponseType is a user's availability answer for a date option.
type ResponseType string

const (
	ResponseYes   ResponseType = "yes"
	ResponseNo    ResponseType = "no"
	ResponseMaybe ResponseType = "maybe"
)

func (r ResponseType) Valid() bool {
	switch r {
	case ResponseYes, ResponseNo, ResponseMaybe:
		return true
	}
	return false
}

// DateOption is a candidate date (and optional HH:MM window) for an event.
type DateOption struct {
	ID        string
	Date      time.Time
	StartTime string
	EndTime   string
	Responses []DateResponse
}

// Response returns userID's response on this option, or nil.
func (d *DateOption) Response(userID string) *DateResponse {
	for i := range d.Responses {
		if d.Responses[i].UserID == userID {
			return &d.Responses[i]
		}
	}
	return nil
}

// DateResponse is one user's answer to one date option. At most one per
// (option, user); at most one option per event carries IsPriority for a
// given user.
type DateResponse struct {
	UserID       string
	UserName     string
	Response     ResponseType
	IsPriority   bool
	Contribution *float64
	Note         string
	RespondedAt  time.Time
}
