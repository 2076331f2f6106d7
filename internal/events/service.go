// Package events implements the event decision workflow: activity
// proposals and votes, date options and availability responses, the phase
// lifecycle and the creator-only guard around all of it.
package events

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

const (
	DefaultMaxDateOptions    = 10
	DefaultMaxUpdateAttempts = 3
)

// Config holds the service's collaborators and limits. Zero values fall
// back to defaults; nil Rooms accepts every room and nil Assets skips
// avatar cleanup.
type Config struct {
	MaxDateOptions    int
	MaxUpdateAttempts int

	Rooms  RoomDirectory
	Assets AssetCleaner

	Now   func() time.Time
	NewID func() string
	// Rand feeds short code generation. Defaults to crypto/rand.
	Rand io.Reader
}

// Service applies workflow operations to events. Mutations for one event
// are serialised and persisted with an optimistic version check; reads go
// straight to the store.
type Service struct {
	store    Store
	comments CommentStore
	cfg      Config
	locks    *keyedMutex
}

// NewService creates a Service over the given stores.
func NewService(store Store, comments CommentStore, cfg Config) *Service {
	if cfg.MaxDateOptions <= 0 {
		cfg.MaxDateOptions = DefaultMaxDateOptions
	}
	if cfg.MaxUpdateAttempts <= 0 {
		cfg.MaxUpdateAttempts = DefaultMaxUpdateAttempts
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.NewString() }
	}
	return &Service{
		store:    store,
		comments: comments,
		cfg:      cfg,
		locks:    newKeyedMutex(),
	}
}

// NewEvent is the input for CreateEvent.
type NewEvent struct {
	Name                     string
	Description              string
	BudgetType               models.BudgetType
	BudgetAmount             *float64
	ParticipantCountEstimate *int
	LocationRegion           string
	VotingDeadline           *time.Time
	TimeWindow               *models.TimeWindow
	AvatarURL                string
	ProposedActivityIDs      []string
}

// EventUpdate carries the metadata fields to change. Nil fields are left
// alone.
type EventUpdate struct {
	Name                     *string
	Description              *string
	BudgetType               *models.BudgetType
	BudgetAmount             *float64
	ParticipantCountEstimate *int
	LocationRegion           *string
	VotingDeadline           *time.Time
	TimeWindow               *models.TimeWindow
	AvatarURL                *string
}

func (u EventUpdate) empty() bool {
	return u.Name == nil && u.Description == nil && u.BudgetType == nil &&
		u.BudgetAmount == nil && u.ParticipantCountEstimate == nil &&
		u.LocationRegion == nil && u.VotingDeadline == nil && u.TimeWindow == nil &&
		u.AvatarURL == nil
}

// CreateEvent creates an event in the proposal phase with actor as its
// creator and first participant.
func (s *Service) CreateEvent(ctx context.Context, actor models.Actor, roomID string, in NewEvent) (*models.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(roomID) == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "room id is required")
	}
	if err := s.checkRoom(ctx, roomID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "name is required")
	}
	budgetType := in.BudgetType
	if budgetType == "" {
		budgetType = models.BudgetPerPerson
	}
	if err := validateMetadata(budgetType, in.BudgetAmount, in.ParticipantCountEstimate); err != nil {
		return nil, err
	}
	window, err := normalizeTimeWindow(in.TimeWindow)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueShortCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now()
	ev := &models.Event{
		ID:                       s.cfg.NewID(),
		ShortCode:                code,
		RoomID:                   roomID,
		Name:                     name,
		Description:              in.Description,
		Phase:                    models.PhaseProposal,
		BudgetType:               budgetType,
		BudgetAmount:             in.BudgetAmount,
		ParticipantCountEstimate: in.ParticipantCountEstimate,
		LocationRegion:           in.LocationRegion,
		VotingDeadline:           in.VotingDeadline,
		TimeWindow:               window,
		CreatedByUserID:          actor.UserID,
		CreatedAt:                now,
		UpdatedAt:                now,
		AvatarURL:                in.AvatarURL,
		ProposedActivityIDs:      normalizeActivityIDs(in.ProposedActivityIDs),
		ActivityVotes:            map[string][]models.Vote{},
		Version:                  1,
	}
	joinRoster(ev, actor, now)

	if err := s.store.CreateEvent(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) checkRoom(ctx context.Context, roomID string) error {
	if s.cfg.Rooms == nil {
		return nil
	}
	ok, err := s.cfg.Rooms.RoomExists(ctx, roomID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to look up room", err)
	}
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "room not found")
	}
	return nil
}

func (s *Service) uniqueShortCode(ctx context.Context) (string, error) {
	for range shortCodeAttempts {
		code, err := NewShortCode(s.cfg.Rand)
		if err != nil {
			return "", apperrors.Wrap(apperrors.CodeInternal, "failed to generate short code", err)
		}
		taken, err := s.store.ShortCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperrors.New(apperrors.CodeInternal, "could not allocate a unique short code")
}

func validateMetadata(budgetType models.BudgetType, amount *float64, estimate *int) error {
	if !budgetType.Valid() {
		return apperrors.Newf(apperrors.CodeBadRequest, "invalid budget type %q", budgetType)
	}
	if amount != nil && *amount < 0 {
		return apperrors.New(apperrors.CodeBadRequest, "budget amount must not be negative")
	}
	if estimate != nil && *estimate < 0 {
		return apperrors.New(apperrors.CodeBadRequest, "participant count estimate must not be negative")
	}
	return nil
}

// normalizeTimeWindow trims both parts; a window must name its type and
// value.
func normalizeTimeWindow(w *models.TimeWindow) (*models.TimeWindow, error) {
	if w == nil {
		return nil, nil
	}
	out := &models.TimeWindow{Type: strings.TrimSpace(w.Type), Value: strings.TrimSpace(w.Value)}
	if out.Type == "" || out.Value == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "time window needs a type and a value")
	}
	return out, nil
}

// GetEvent resolves ref (event id or short code) and returns the event with
// the viewer's unread comment count filled in.
func (s *Service) GetEvent(ctx context.Context, actor models.Actor, ref string) (*models.Event, error) {
	ev, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.fillUnread(ctx, ev, actor)
	return ev, nil
}

// ListRoomEvents returns the room's events, oldest first.
func (s *Service) ListRoomEvents(ctx context.Context, actor models.Actor, roomID string) ([]*models.Event, error) {
	if err := s.checkRoom(ctx, roomID); err != nil {
		return nil, err
	}
	evs, err := s.store.ListEventsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for _, ev := range evs {
		s.fillUnread(ctx, ev, actor)
	}
	return evs, nil
}

// resolve looks ref up as an event id when it parses as a UUID and as a
// short code otherwise. Any UUID spelling uuid.Parse accepts is reduced to
// the canonical lowercase form the stores key on.
func (s *Service) resolve(ctx context.Context, ref string) (*models.Event, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return s.store.GetEvent(ctx, id.String())
	}
	if IsShortCode(ref) {
		return s.store.GetEventByShortCode(ctx, strings.ToUpper(ref))
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "event not found")
}

func (s *Service) fillUnread(ctx context.Context, ev *models.Event, actor models.Actor) {
	if s.comments == nil || actor.UserID == "" {
		return
	}
	n, err := s.comments.CountUnreadComments(ctx, ev.ID, actor.UserID)
	if err != nil {
		log.Printf("events: unread count for event %s: %v", ev.ID, err)
		return
	}
	ev.UnreadMessageCount = n
}

// mutate is the single write path. It resolves ref, takes the event's lock
// and applies fn to a freshly loaded copy. A version conflict reloads and
// retries; any error from fn aborts without writing.
func (s *Service) mutate(ctx context.Context, actor models.Actor, ref string, fn func(ev *models.Event, now time.Time) error) (*models.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	current, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	id := current.ID

	unlock := s.locks.Lock(id)
	defer unlock()

	var lastErr error
	for range s.cfg.MaxUpdateAttempts {
		ev, err := s.store.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		expected := ev.Version
		now := s.cfg.Now()
		if err := fn(ev, now); err != nil {
			return nil, err
		}
		ev.UpdatedAt = now
		ev.Version = expected + 1

		err = s.store.SaveEvent(ctx, ev, expected)
		if err == nil {
			s.fillUnread(ctx, ev, actor)
			return ev, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, apperrors.Wrap(apperrors.CodeConflict, "event was changed concurrently, try again", lastErr)
}

// UpdateEvent changes event metadata. Creator only.
func (s *Service) UpdateEvent(ctx context.Context, actor models.Actor, ref string, u EventUpdate) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		if err := authorize(actor, ActionUpdateEvent, ev); err != nil {
			return err
		}
		if u.empty() {
			return apperrors.New(apperrors.CodeBadRequest, "no fields to update")
		}
		budgetType := ev.BudgetType
		if u.BudgetType != nil {
			budgetType = *u.BudgetType
		}
		if err := validateMetadata(budgetType, u.BudgetAmount, u.ParticipantCountEstimate); err != nil {
			return err
		}
		window, err := normalizeTimeWindow(u.TimeWindow)
		if err != nil {
			return err
		}
		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return apperrors.New(apperrors.CodeBadRequest, "name must not be empty")
			}
			ev.Name = name
		}
		if u.Description != nil {
			ev.Description = *u.Description
		}
		ev.BudgetType = budgetType
		if u.BudgetAmount != nil {
			ev.BudgetAmount = u.BudgetAmount
		}
		if u.ParticipantCountEstimate != nil {
			ev.ParticipantCountEstimate = u.ParticipantCountEstimate
		}
		if u.LocationRegion != nil {
			ev.LocationRegion = *u.LocationRegion
		}
		if u.VotingDeadline != nil {
			ev.VotingDeadline = u.VotingDeadline
		}
		if window != nil {
			ev.TimeWindow = window
		}
		if u.AvatarURL != nil {
			ev.AvatarURL = *u.AvatarURL
		}
		return nil
	})
}

// DeleteEvent removes the event with everything it owns. Creator only. A
// hosted avatar is cleaned up afterwards; failures there are only logged.
func (s *Service) DeleteEvent(ctx context.Context, actor models.Actor, ref string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	ev, err := s.resolve(ctx, ref)
	if err != nil {
		return err
	}
	unlock := s.locks.Lock(ev.ID)
	defer unlock()

	if err := authorize(actor, ActionDeleteEvent, ev); err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, ev.ID); err != nil {
		return err
	}
	if s.cfg.Assets != nil && ev.AvatarURL != "" {
		if err := s.cfg.Assets.DeleteAsset(ctx, ev.AvatarURL); err != nil {
			log.Printf("events: avatar cleanup for event %s: %v", ev.ID, err)
		}
	}
	return nil
}

// SetPhase overwrites the event phase. Creator only.
func (s *Service) SetPhase(ctx context.Context, actor models.Actor, ref string, phase models.Phase) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return setPhase(ev, actor, phase)
	})
}

func (s *Service) RemoveProposedActivity(ctx context.Context, actor models.Actor, ref, activityID string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return removeProposedActivity(ev, actor, activityID)
	})
}

func (s *Service) ExcludeActivity(ctx context.Context, actor models.Actor, ref, activityID string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return excludeActivity(ev, actor, activityID)
	})
}

func (s *Service) IncludeActivity(ctx context.Context, actor models.Actor, ref, activityID string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return includeActivity(ev, actor, activityID)
	})
}

// VoteOnActivity records or replaces actor's vote. Any participant.
func (s *Service) VoteOnActivity(ctx context.Context, actor models.Actor, ref, activityID string, value models.VoteValue) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, now time.Time) error {
		return voteOnActivity(ev, actor, activityID, value, now)
	})
}

// SelectWinningActivity sets the chosen activity and moves the event to
// scheduling. Creator only.
func (s *Service) SelectWinningActivity(ctx context.Context, actor models.Actor, ref, activityID string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return selectWinningActivity(ev, actor, activityID)
	})
}

func (s *Service) AddDateOption(ctx context.Context, actor models.Actor, ref string, in NewDateOption) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return addDateOption(ev, actor, in, s.cfg.NewID(), s.cfg.MaxDateOptions)
	})
}

func (s *Service) DeleteDateOption(ctx context.Context, actor models.Actor, ref, optionID string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return deleteDateOption(ev, actor, optionID)
	})
}

// RespondToDateOption upserts actor's availability on one option. Any
// participant.
func (s *Service) RespondToDateOption(ctx context.Context, actor models.Actor, ref, optionID string, in DateResponseInput) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, now time.Time) error {
		return respondToDateOption(ev, actor, optionID, in, now)
	})
}

// FinalizeDateOption fixes the event date and moves it to info. Creator
// only.
func (s *Service) FinalizeDateOption(ctx context.Context, actor models.Actor, ref, optionID string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, _ time.Time) error {
		return finalizeDateOption(ev, actor, optionID)
	})
}

// MarkInvitesSent stamps InviteSentAt for the external notifier.
func (s *Service) MarkInvitesSent(ctx context.Context, actor models.Actor, ref string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, now time.Time) error {
		if err := authorize(actor, ActionRecordInvites, ev); err != nil {
			return err
		}
		ev.InviteSentAt = &now
		return nil
	})
}

// MarkReminderSent stamps LastReminderAt for the external notifier.
func (s *Service) MarkReminderSent(ctx context.Context, actor models.Actor, ref string) (*models.Event, error) {
	return s.mutate(ctx, actor, ref, func(ev *models.Event, now time.Time) error {
		if err := authorize(actor, ActionRecordReminder, ev); err != nil {
			return err
		}
		ev.LastReminderAt = &now
		return nil
	})
}
