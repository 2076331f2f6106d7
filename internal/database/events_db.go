package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/spiral023/eventhorizon-sub000/internal/apperrors"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const eventColumns = `id, short_code, room_id, name, description, phase, budget_type,
	budget_amount, participant_count_estimate, location_region, voting_deadline,
	time_window_type, time_window_value, created_by_user_id, created_at, updated_at, avatar_url, invite_sent_at,
	last_reminder_at, chosen_activity_id, final_date_option_id, version`

// CreateEvent inserts a new event with all of its collections.
func (s *Store) CreateEvent(ctx context.Context, ev *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err, "event")
	}
	defer tx.Rollback()

	windowType, windowValue := splitWindow(ev.TimeWindow)
	_, err = tx.ExecContext(ctx, `INSERT INTO events(`+eventColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.ShortCode, ev.RoomID, ev.Name, ev.Description, ev.Phase, ev.BudgetType,
		nullFloat(ev.BudgetAmount), nullInt(ev.ParticipantCountEstimate), ev.LocationRegion, nullTime(ev.VotingDeadline),
		windowType, windowValue, ev.CreatedByUserID, ev.CreatedAt.UTC(), ev.UpdatedAt.UTC(), ev.AvatarURL, nullTime(ev.InviteSentAt),
		nullTime(ev.LastReminderAt), ev.ChosenActivityID, ev.FinalDateOptionID, ev.Version)
	if err != nil {
		return storeErr(err, "event")
	}
	if err := writeCollections(ctx, tx, ev); err != nil {
		return err
	}
	return storeErr(tx.Commit(), "event")
}

// GetEvent loads the aggregate by id.
func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return loadEvent(ctx, s.db, "id = ?", id)
}

// GetEventByShortCode loads the aggregate by its short code.
func (s *Store) GetEventByShortCode(ctx context.Context, code string) (*models.Event, error) {
	return loadEvent(ctx, s.db, "short_code = ?", code)
}

// ListEventsByRoom returns the room's events ordered by creation time.
func (s *Store) ListEventsByRoom(ctx context.Context, roomID string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM events WHERE room_id = ? ORDER BY created_at ASC, id ASC`, roomID)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, storeErr(err, "event")
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "event")
	}

	evs := make([]*models.Event, 0, len(ids))
	for _, id := range ids {
		ev, err := loadEvent(ctx, s.db, "id = ?", id)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}
	return evs, nil
}

// SaveEvent replaces the stored aggregate when the stored version still
// equals expectedVersion.
func (s *Store) SaveEvent(ctx context.Context, ev *models.Event, expectedVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err, "event")
	}
	defer tx.Rollback()

	windowType, windowValue := splitWindow(ev.TimeWindow)
	res, err := tx.ExecContext(ctx, `
		UPDATE events SET
			name = ?, description = ?, phase = ?, budget_type = ?, budget_amount = ?,
			participant_count_estimate = ?, location_region = ?, voting_deadline = ?,
			time_window_type = ?, time_window_value = ?, updated_at = ?, avatar_url = ?, invite_sent_at = ?, last_reminder_at = ?,
			chosen_activity_id = ?, final_date_option_id = ?, version = ?
		WHERE id = ? AND version = ?`,
		ev.Name, ev.Description, ev.Phase, ev.BudgetType, nullFloat(ev.BudgetAmount),
		nullInt(ev.ParticipantCountEstimate), ev.LocationRegion, nullTime(ev.VotingDeadline),
		windowType, windowValue, ev.UpdatedAt.UTC(), ev.AvatarURL, nullTime(ev.InviteSentAt), nullTime(ev.LastReminderAt),
		ev.ChosenActivityID, ev.FinalDateOptionID, ev.Version,
		ev.ID, expectedVersion)
	if err != nil {
		return storeErr(err, "event")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err, "event")
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, ev.ID).Scan(&exists)
		if err != nil {
			return storeErr(err, "event")
		}
		return apperrors.New(apperrors.CodeConflict, "event was modified concurrently")
	}

	if err := clearCollections(ctx, tx, ev.ID); err != nil {
		return err
	}
	if err := writeCollections(ctx, tx, ev); err != nil {
		return err
	}
	return storeErr(tx.Commit(), "event")
}

// DeleteEvent removes the event. Collections, comments and read marks go
// with it through ON DELETE CASCADE.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return storeErr(err, "event")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err, "event")
	}
	if n == 0 {
		return apperrors.New(apperrors.CodeNotFound, "event not found")
	}
	return nil
}

func (s *Store) ShortCodeTaken(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE short_code = ?`, code).Scan(&n)
	if err != nil {
		return false, storeErr(err, "event")
	}
	return n > 0, nil
}

func loadEvent(ctx context.Context, q querier, where string, arg any) (*models.Event, error) {
	ev := &models.Event{}
	var (
		budgetAmount   sql.NullFloat64
		estimate       sql.NullInt64
		votingDeadline sql.NullTime
		inviteSentAt   sql.NullTime
		lastReminderAt sql.NullTime
		windowType     string
		windowValue    string
	)
	row := q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE `+where, arg)
	err := row.Scan(&ev.ID, &ev.ShortCode, &ev.RoomID, &ev.Name, &ev.Description, &ev.Phase, &ev.BudgetType,
		&budgetAmount, &estimate, &ev.LocationRegion, &votingDeadline,
		&windowType, &windowValue, &ev.CreatedByUserID, &ev.CreatedAt, &ev.UpdatedAt, &ev.AvatarURL, &inviteSentAt,
		&lastReminderAt, &ev.ChosenActivityID, &ev.FinalDateOptionID, &ev.Version)
	if err != nil {
		return nil, storeErr(err, "event")
	}
	if budgetAmount.Valid {
		ev.BudgetAmount = &budgetAmount.Float64
	}
	if estimate.Valid {
		n := int(estimate.Int64)
		ev.ParticipantCountEstimate = &n
	}
	ev.VotingDeadline = timePtr(votingDeadline)
	ev.InviteSentAt = timePtr(inviteSentAt)
	ev.LastReminderAt = timePtr(lastReminderAt)
	if windowType != "" {
		ev.TimeWindow = &models.TimeWindow{Type: windowType, Value: windowValue}
	}

	if err := readCollections(ctx, q, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// splitWindow flattens a time window onto its two columns; an empty type
// means no window.
func splitWindow(w *models.TimeWindow) (string, string) {
	if w == nil {
		return "", ""
	}
	return w.Type, w.Value
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
