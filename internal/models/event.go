package models

import (
	"slices"
	"time"
)

// Phase is the stage an event is in.
type Phase string

const (
	PhaseProposal   Phase = "proposal"
	PhaseVoting     Phase = "voting"
	PhaseScheduling Phase = "scheduling"
	PhaseInfo       Phase = "info"
)

// Phases lists the phases in lifecycle order.
var Phases = []Phase{PhaseProposal, PhaseVoting, PhaseScheduling, PhaseInfo}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return slices.Contains(Phases, p)
}

type BudgetType string

const (
	BudgetTotal     BudgetType = "total"
	BudgetPerPerson BudgetType = "per_person"
)

func (b BudgetType) Valid() bool {
	return b == BudgetTotal || b == BudgetPerPerson
}

// TimeWindow is the rough period an event should take place in before a
// date is fixed, for example {season, summer} or {month, 2025-07}.
type TimeWindow struct {
	Type  string
	Value string
}

// Event is the aggregate root of the decision workflow. Everything a
// participant can change about an event lives here and is written as one
// unit.
type Event struct {
	ID        string
	ShortCode string
	RoomID    string

	Name        string
	Description string
	Phase       Phase

	BudgetType               BudgetType
	BudgetAmount             *float64
	ParticipantCountEstimate *int
	LocationRegion           string
	VotingDeadline           *time.Time
	TimeWindow               *TimeWindow

	CreatedByUserID string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	AvatarURL      string
	InviteSentAt   *time.Time
	LastReminderAt *time.Time

	// UnreadMessageCount is computed for the viewing user on read.
	UnreadMessageCount int

	ProposedActivityIDs []string
	ExcludedActivityIDs []string
	// ActivityVotes holds one ledger per activity id.
	ActivityVotes       map[string][]Vote
	// ChosenActivityID is empty until an activity is selected.
	ChosenActivityID    string

	DateOptions       []DateOption
	// FinalDateOptionID is empty until a date is finalized.
	FinalDateOptionID string

	// Participants is the roster; HasVoted/DateResponse are derived from it
	// on read, see events.ProjectParticipants.
	Participants []Participant

	// Version increases by one on every committed write.
	Version int64
}

// IsCreator reports whether userID created the event.
func (e *Event) IsCreator(userID string) bool {
	return userID != "" && e.CreatedByUserID == userID
}

func (e *Event) IsProposed(activityID string) bool {
	return slices.Contains(e.ProposedActivityIDs, activityID)
}

func (e *Event) IsExcluded(activityID string) bool {
	return slices.Contains(e.ExcludedActivityIDs, activityID)
}

// DateOption returns the option with the given id, or nil.
func (e *Event) DateOption(id string) *DateOption {
	for i := range e.DateOptions {
		if e.DateOptions[i].ID == id {
			return &e.DateOptions[i]
		}
	}
	return nil
}

// Participant returns the roster entry for userID, or nil.
func (e *Event) Participant(userID string) *Participant {
	for i := range e.Participants {
		if e.Participants[i].UserID == userID {
			return &e.Participants[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	c.BudgetAmount = clonePtr(e.BudgetAmount)
	c.ParticipantCountEstimate = clonePtr(e.ParticipantCountEstimate)
	c.VotingDeadline = clonePtr(e.VotingDeadline)
	c.TimeWindow = clonePtr(e.TimeWindow)
	c.InviteSentAt = clonePtr(e.InviteSentAt)
	c.LastReminderAt = clonePtr(e.LastReminderAt)
	c.ProposedActivityIDs = slices.Clone(e.ProposedActivityIDs)
	c.ExcludedActivityIDs = slices.Clone(e.ExcludedActivityIDs)
	if e.ActivityVotes != nil {
		c.ActivityVotes = make(map[string][]Vote, len(e.ActivityVotes))
		for id, ledger := range e.ActivityVotes {
			c.ActivityVotes[id] = slices.Clone(ledger)
		}
	}
	if e.DateOptions != nil {
		c.DateOptions = make([]DateOption, len(e.DateOptions))
		for i, opt := range e.DateOptions {
			c.DateOptions[i] = opt
			if opt.Responses == nil {
				continue
			}
			c.DateOptions[i].Responses = make([]DateResponse, len(opt.Responses))
			for j, r := range opt.Responses {
				r.Contribution = clonePtr(r.Contribution)
				c.DateOptions[i].Responses[j] = r
			}
		}
	}
	c.Participants = slices.Clone(e.Participants)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Participant is a roster entry for an event.
type Participant struct {
	UserID      string
	UserName    string
	IsOrganizer bool
	JoinedAt    time.Time
}

// ParticipantView is a roster entry with the display-only fields filled in.
type ParticipantView struct {
	Participant
	HasVoted     bool
	DateResponse ResponseType // empty when the user has no counted response
}
