package mongostore

import (
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// eventDocument is the stored shape of an Event. Vote ledgers are kept as
// an array rather than a map because activity ids may contain dots.
type eventDocument struct {
	ID                       string           `bson:"_id"`
	ShortCode                string           `bson:"short_code"`
	RoomID                   string           `bson:"room_id"`
	Name                     string           `bson:"name"`
	Description              string           `bson:"description,omitempty"`
	Phase                    string           `bson:"phase"`
	BudgetType               string           `bson:"budget_type"`
	BudgetAmount             *float64         `bson:"budget_amount,omitempty"`
	ParticipantCountEstimate *int             `bson:"participant_count_estimate,omitempty"`
	LocationRegion           string           `bson:"location_region,omitempty"`
	VotingDeadline           *time.Time       `bson:"voting_deadline,omitempty"`
	TimeWindow               *timeWindowDoc   `bson:"time_window,omitempty"`
	CreatedByUserID          string           `bson:"created_by_user_id"`
	CreatedAt                time.Time        `bson:"created_at"`
	UpdatedAt                time.Time        `bson:"updated_at"`
	AvatarURL                string           `bson:"avatar_url,omitempty"`
	InviteSentAt             *time.Time       `bson:"invite_sent_at,omitempty"`
	LastReminderAt           *time.Time       `bson:"last_reminder_at,omitempty"`
	ProposedActivityIDs      []string         `bson:"proposed_activity_ids"`
	ExcludedActivityIDs      []string         `bson:"excluded_activity_ids"`
	ActivityVotes            []ledgerDoc      `bson:"activity_votes"`
	ChosenActivityID         string           `bson:"chosen_activity_id,omitempty"`
	DateOptions              []dateOptionDoc  `bson:"date_options"`
	FinalDateOptionID        string           `bson:"final_date_option_id,omitempty"`
	Participants             []participantDoc `bson:"participants"`
	Version                  int64            `bson:"version"`
}

type timeWindowDoc struct {
	Type  string `bson:"type"`
	Value string `bson:"value"`
}

type ledgerDoc struct {
	ActivityID string    `bson:"activity_id"`
	Votes      []voteDoc `bson:"votes"`
}

type voteDoc struct {
	UserID   string    `bson:"user_id"`
	UserName string    `bson:"user_name"`
	Vote     string    `bson:"vote"`
	VotedAt  time.Time `bson:"voted_at"`
}

type dateOptionDoc struct {
	ID        string        `bson:"id"`
	Date      time.Time     `bson:"date"`
	StartTime string        `bson:"start_time,omitempty"`
	EndTime   string        `bson:"end_time,omitempty"`
	Responses []responseDoc `bson:"responses,omitempty"`
}

type responseDoc struct {
	UserID       string    `bson:"user_id"`
	UserName     string    `bson:"user_name"`
	Response     string    `bson:"response"`
	IsPriority   bool      `bson:"is_priority"`
	Contribution *float64  `bson:"contribution,omitempty"`
	Note         string    `bson:"note,omitempty"`
	RespondedAt  time.Time `bson:"responded_at"`
}

type participantDoc struct {
	UserID      string    `bson:"user_id"`
	UserName    string    `bson:"user_name"`
	IsOrganizer bool      `bson:"is_organizer"`
	JoinedAt    time.Time `bson:"joined_at"`
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	EventID   string    `bson:"event_id"`
	UserID    string    `bson:"user_id"`
	UserName  string    `bson:"user_name"`
	Content   string    `bson:"content"`
	Phase     string    `bson:"phase,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type readMarkDocument struct {
	EventID    string    `bson:"event_id"`
	UserID     string    `bson:"user_id"`
	LastReadAt time.Time `bson:"last_read_at"`
}

func toEventDocument(ev *models.Event) eventDocument {
	doc := eventDocument{
		ID:                       ev.ID,
		ShortCode:                ev.ShortCode,
		RoomID:                   ev.RoomID,
		Name:                     ev.Name,
		Description:              ev.Description,
		Phase:                    string(ev.Phase),
		BudgetType:               string(ev.BudgetType),
		BudgetAmount:             ev.BudgetAmount,
		ParticipantCountEstimate: ev.ParticipantCountEstimate,
		LocationRegion:           ev.LocationRegion,
		VotingDeadline:           ev.VotingDeadline,
		TimeWindow:               (*timeWindowDoc)(ev.TimeWindow),
		CreatedByUserID:          ev.CreatedByUserID,
		CreatedAt:                ev.CreatedAt,
		UpdatedAt:                ev.UpdatedAt,
		AvatarURL:                ev.AvatarURL,
		InviteSentAt:             ev.InviteSentAt,
		LastReminderAt:           ev.LastReminderAt,
		ProposedActivityIDs:      nonNil(ev.ProposedActivityIDs),
		ExcludedActivityIDs:      nonNil(ev.ExcludedActivityIDs),
		ActivityVotes:            []ledgerDoc{},
		ChosenActivityID:         ev.ChosenActivityID,
		DateOptions:              []dateOptionDoc{},
		FinalDateOptionID:        ev.FinalDateOptionID,
		Participants:             []participantDoc{},
		Version:                  ev.Version,
	}
	for activityID, ledger := range ev.ActivityVotes {
		l := ledgerDoc{ActivityID: activityID, Votes: make([]voteDoc, 0, len(ledger))}
		for _, v := range ledger {
			l.Votes = append(l.Votes, voteDoc{UserID: v.UserID, UserName: v.UserName, Vote: string(v.Value), VotedAt: v.VotedAt})
		}
		doc.ActivityVotes = append(doc.ActivityVotes, l)
	}
	for _, opt := range ev.DateOptions {
		o := dateOptionDoc{ID: opt.ID, Date: opt.Date, StartTime: opt.StartTime, EndTime: opt.EndTime}
		for _, r := range opt.Responses {
			o.Responses = append(o.Responses, responseDoc{
				UserID:       r.UserID,
				UserName:     r.UserName,
				Response:     string(r.Response),
				IsPriority:   r.IsPriority,
				Contribution: r.Contribution,
				Note:         r.Note,
				RespondedAt:  r.RespondedAt,
			})
		}
		doc.DateOptions = append(doc.DateOptions, o)
	}
	for _, p := range ev.Participants {
		doc.Participants = append(doc.Participants, participantDoc(p))
	}
	return doc
}

func (doc eventDocument) toModel() *models.Event {
	ev := &models.Event{
		ID:                       doc.ID,
		ShortCode:                doc.ShortCode,
		RoomID:                   doc.RoomID,
		Name:                     doc.Name,
		Description:              doc.Description,
		Phase:                    models.Phase(doc.Phase),
		BudgetType:               models.BudgetType(doc.BudgetType),
		BudgetAmount:             doc.BudgetAmount,
		ParticipantCountEstimate: doc.ParticipantCountEstimate,
		LocationRegion:           doc.LocationRegion,
		VotingDeadline:           utcPtr(doc.VotingDeadline),
		TimeWindow:               (*models.TimeWindow)(doc.TimeWindow),
		CreatedByUserID:          doc.CreatedByUserID,
		CreatedAt:                doc.CreatedAt.UTC(),
		UpdatedAt:                doc.UpdatedAt.UTC(),
		AvatarURL:                doc.AvatarURL,
		InviteSentAt:             utcPtr(doc.InviteSentAt),
		LastReminderAt:           utcPtr(doc.LastReminderAt),
		ProposedActivityIDs:      nonNil(doc.ProposedActivityIDs),
		ExcludedActivityIDs:      nonNil(doc.ExcludedActivityIDs),
		ActivityVotes:            make(map[string][]models.Vote, len(doc.ActivityVotes)),
		ChosenActivityID:         doc.ChosenActivityID,
		FinalDateOptionID:        doc.FinalDateOptionID,
		Version:                  doc.Version,
	}
	for _, l := range doc.ActivityVotes {
		for _, v := range l.Votes {
			ev.ActivityVotes[l.ActivityID] = append(ev.ActivityVotes[l.ActivityID], models.Vote{
				UserID:   v.UserID,
				UserName: v.UserName,
				Value:    models.VoteValue(v.Vote),
				VotedAt:  v.VotedAt.UTC(),
			})
		}
	}
	for _, o := range doc.DateOptions {
		opt := models.DateOption{ID: o.ID, Date: o.Date.UTC(), StartTime: o.StartTime, EndTime: o.EndTime}
		for _, r := range o.Responses {
			opt.Responses = append(opt.Responses, models.DateResponse{
				UserID:       r.UserID,
				UserName:     r.UserName,
				Response:     models.ResponseType(r.Response),
				IsPriority:   r.IsPriority,
				Contribution: r.Contribution,
				Note:         r.Note,
				RespondedAt:  r.RespondedAt.UTC(),
			})
		}
		ev.DateOptions = append(ev.DateOptions, opt)
	}
	for _, p := range doc.Participants {
		p.JoinedAt = p.JoinedAt.UTC()
		ev.Participants = append(ev.Participants, models.Participant(p))
	}
	return ev
}

func toCommentDocument(c *models.Comment) commentDocument {
	return commentDocument{
		ID:        c.ID,
		EventID:   c.EventID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Content:   c.Content,
		Phase:     string(c.Phase),
		CreatedAt: c.CreatedAt,
	}
}

func (doc commentDocument) toModel() *models.Comment {
	return &models.Comment{
		ID:        doc.ID,
		EventID:   doc.EventID,
		UserID:    doc.UserID,
		UserName:  doc.UserName,
		Content:   doc.Content,
		Phase:     models.Phase(doc.Phase),
		CreatedAt: doc.CreatedAt.UTC(),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
