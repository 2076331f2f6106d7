package handlers

import (
	"strings"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/events"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// Wire types. The wire is snake_case; the domain types carry no tags, so
// every conversion goes through this file.

const dateLayout = "2006-01-02"

type EventResponse struct {
	ID                       string                    `json:"id"`
	ShortCode                string                    `json:"short_code"`
	RoomID                   string                    `json:"room_id"`
	Name                     string                    `json:"name"`
	Description              string                    `json:"description"`
	Phase                    string                    `json:"phase"`
	BudgetType               string                    `json:"budget_type"`
	BudgetAmount             *float64                  `json:"budget_amount"`
	ParticipantCountEstimate *int                      `json:"participant_count_estimate"`
	LocationRegion           string                    `json:"location_region"`
	VotingDeadline           *time.Time                `json:"voting_deadline"`
	TimeWindow               *TimeWindowResponse       `json:"time_window"`
	CreatedByUserID          string                    `json:"created_by_user_id"`
	CreatedAt                time.Time                 `json:"created_at"`
	UpdatedAt                time.Time                 `json:"updated_at"`
	AvatarURL                *string                   `json:"avatar_url"`
	InviteSentAt             *time.Time                `json:"invite_sent_at"`
	LastReminderAt           *time.Time                `json:"last_reminder_at"`
	UnreadMessageCount       int                       `json:"unread_message_count"`
	ProposedActivityIDs      []string                  `json:"proposed_activity_ids"`
	ExcludedActivityIDs      []string                  `json:"excluded_activity_ids"`
	ActivityVotes            map[string][]VoteResponse `json:"activity_votes"`
	ChosenActivityID         *string                   `json:"chosen_activity_id"`
	DateOptions              []DateOptionResponse      `json:"date_options"`
	FinalDateOptionID        *string                   `json:"final_date_option_id"`
	Participants             []ParticipantResponse     `json:"participants"`
}

// TimeWindowResponse is also accepted on create and update.
type TimeWindowResponse struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type VoteResponse struct {
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Vote     string    `json:"vote"`
	VotedAt  time.Time `json:"voted_at"`
}

type DateOptionResponse struct {
	ID        string                 `json:"id"`
	Date      string                 `json:"date"`
	StartTime *string                `json:"start_time"`
	EndTime   *string                `json:"end_time"`
	Responses []DateResponseResponse `json:"responses"`
}

type DateResponseResponse struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	Response     string    `json:"response"`
	IsPriority   bool      `json:"is_priority"`
	Contribution *float64  `json:"contribution"`
	Note         *string   `json:"note"`
	RespondedAt  time.Time `json:"responded_at"`
}

type ParticipantResponse struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	IsOrganizer  bool      `json:"is_organizer"`
	JoinedAt     time.Time `json:"joined_at"`
	HasVoted     bool      `json:"has_voted"`
	DateResponse *string   `json:"date_response"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	Phase     *string   `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventResponse(ev *models.Event) EventResponse {
	resp := EventResponse{
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
		TimeWindow:               (*TimeWindowResponse)(ev.TimeWindow),
		CreatedByUserID:          ev.CreatedByUserID,
		CreatedAt:                ev.CreatedAt,
		UpdatedAt:                ev.UpdatedAt,
		AvatarURL:                optional(ev.AvatarURL),
		InviteSentAt:             ev.InviteSentAt,
		LastReminderAt:           ev.LastReminderAt,
		UnreadMessageCount:       ev.UnreadMessageCount,
		ProposedActivityIDs:      orEmpty(ev.ProposedActivityIDs),
		ExcludedActivityIDs:      orEmpty(ev.ExcludedActivityIDs),
		ActivityVotes:            make(map[string][]VoteResponse, len(ev.ActivityVotes)),
		ChosenActivityID:         optional(ev.ChosenActivityID),
		DateOptions:              make([]DateOptionResponse, 0, len(ev.DateOptions)),
		FinalDateOptionID:        optional(ev.FinalDateOptionID),
		Participants:             []ParticipantResponse{},
	}
	for activityID, ledger := range ev.ActivityVotes {
		votes := make([]VoteResponse, 0, len(ledger))
		for _, v := range ledger {
			votes = append(votes, VoteResponse{UserID: v.UserID, UserName: v.UserName, Vote: string(v.Value), VotedAt: v.VotedAt})
		}
		resp.ActivityVotes[activityID] = votes
	}
	for _, opt := range ev.DateOptions {
		o := DateOptionResponse{
			ID:        opt.ID,
			Date:      opt.Date.Format(dateLayout),
			StartTime: optional(opt.StartTime),
			EndTime:   optional(opt.EndTime),
			Responses: make([]DateResponseResponse, 0, len(opt.Responses)),
		}
		for _, r := range opt.Responses {
			o.Responses = append(o.Responses, DateResponseResponse{
				UserID:       r.UserID,
				UserName:     r.UserName,
				Response:     string(r.Response),
				IsPriority:   r.IsPriority,
				Contribution: r.Contribution,
				Note:         optional(r.Note),
				RespondedAt:  r.RespondedAt,
			})
		}
		resp.DateOptions = append(resp.DateOptions, o)
	}
	for _, p := range events.ProjectParticipants(ev) {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			UserID:       p.UserID,
			UserName:     p.UserName,
			IsOrganizer:  p.IsOrganizer,
			JoinedAt:     p.JoinedAt,
			HasVoted:     p.HasVoted,
			DateResponse: optional(string(p.DateResponse)),
		})
	}
	return resp
}

func toEventResponses(evs []*models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(evs))
	for _, ev := range evs {
		out = append(out, toEventResponse(ev))
	}
	return out
}

func toCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		EventID:   c.EventID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Content:   c.Content,
		Phase:     optional(string(c.Phase)),
		CreatedAt: c.CreatedAt,
	}
}

// Requests.

type createEventRequest struct {
	Name                     string              `json:"name" binding:"required"`
	Description              string              `json:"description"`
	BudgetType               string              `json:"budget_type"`
	BudgetAmount             *float64            `json:"budget_amount"`
	ParticipantCountEstimate *int                `json:"participant_count_estimate"`
	LocationRegion           string              `json:"location_region"`
	VotingDeadline           *time.Time          `json:"voting_deadline"`
	TimeWindow               *TimeWindowResponse `json:"time_window"`
	AvatarURL                string              `json:"avatar_url"`
	ProposedActivityIDs      []string            `json:"proposed_activity_ids"`
}

func (r createEventRequest) toInput() events.NewEvent {
	return events.NewEvent{
		Name:                     r.Name,
		Description:              r.Description,
		BudgetType:               models.BudgetType(r.BudgetType),
		BudgetAmount:             r.BudgetAmount,
		ParticipantCountEstimate: r.ParticipantCountEstimate,
		LocationRegion:           r.LocationRegion,
		VotingDeadline:           r.VotingDeadline,
		TimeWindow:               (*models.TimeWindow)(r.TimeWindow),
		AvatarURL:                r.AvatarURL,
		ProposedActivityIDs:      r.ProposedActivityIDs,
	}
}

type updateEventRequest struct {
	Name                     *string             `json:"name"`
	Description              *string             `json:"description"`
	BudgetType               *string             `json:"budget_type"`
	BudgetAmount             *float64            `json:"budget_amount"`
	ParticipantCountEstimate *int                `json:"participant_count_estimate"`
	LocationRegion           *string             `json:"location_region"`
	VotingDeadline           *time.Time          `json:"voting_deadline"`
	TimeWindow               *TimeWindowResponse `json:"time_window"`
	AvatarURL                *string             `json:"avatar_url"`
}

func (r updateEventRequest) toInput() events.EventUpdate {
	u := events.EventUpdate{
		Name:                     r.Name,
		Description:              r.Description,
		BudgetAmount:             r.BudgetAmount,
		ParticipantCountEstimate: r.ParticipantCountEstimate,
		LocationRegion:           r.LocationRegion,
		VotingDeadline:           r.VotingDeadline,
		TimeWindow:               (*models.TimeWindow)(r.TimeWindow),
		AvatarURL:                r.AvatarURL,
	}
	if r.BudgetType != nil {
		bt := models.BudgetType(*r.BudgetType)
		u.BudgetType = &bt
	}
	return u
}

type setPhaseRequest struct {
	Phase string `json:"phase" binding:"required"`
}

type activityRequest struct {
	ActivityID string `json:"activity_id" binding:"required"`
}

type voteRequest struct {
	ActivityID string `json:"activity_id" binding:"required"`
	Vote       string `json:"vote" binding:"required"`
}

type dateOptionRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r dateOptionRequest) toInput() events.NewDateOption {
	return events.NewDateOption{Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime}
}

type dateResponseRequest struct {
	Response     string   `json:"response" binding:"required"`
	IsPriority   bool     `json:"is_priority"`
	Contribution *float64 `json:"contribution"`
	Note         string   `json:"note"`
}

func (r dateResponseRequest) toInput() events.DateResponseInput {
	return events.DateResponseInput{
		Response:     models.ResponseType(strings.ToLower(r.Response)),
		IsPriority:   r.IsPriority,
		Contribution: r.Contribution,
		Note:         r.Note,
	}
}

type finalizeDateRequest struct {
	DateOptionID string `json:"date_option_id" binding:"required"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
	Phase   string `json:"phase"`
}

// voteAliases maps the for/against/abstain spelling used by older clients.
var voteAliases = map[string]models.VoteValue{
	"for":     models.VoteUp,
	"against": models.VoteDown,
	"abstain": models.VoteNeutral,
}

func parseVote(s string) models.VoteValue {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, ok := voteAliases[s]; ok {
		return v
	}
	return models.VoteValue(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
