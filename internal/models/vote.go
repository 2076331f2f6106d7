package models

import "time"

// VoteValue is a participant's stance on a proposed activity.
type VoteValue string

const (
	VoteUp      VoteValue = "up"
	VoteDown    VoteValue = "down"
	VoteNeutral VoteValue = "neutral"
)

func (v VoteValue) Valid() bool {
	switch v {
	case VoteUp, VoteDown, VoteNeutral:
		return true
	}
	return false
}

// Vote is one entry in an activity's vote ledger.
type Vote struct {
	UserID   string
	UserName string
	Value    VoteValue
	VotedAt  time.Time
}
