package database

import (
	"context"
	"database/sql"

	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

// Child tables of an event. Rows carry a position so ledgers read back in
// the order they were written.
var collectionTables = []string{
	"event_proposed_activities",
	"event_excluded_activities",
	"activity_votes",
	"date_options", // date_responses cascade
	"event_participants",
}

func clearCollections(ctx context.Context, q querier, eventID string) error {
	for _, table := range collectionTables {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE event_id = ?`, eventID); err != nil {
			return storeErr(err, table)
		}
	}
	return nil
}

func writeCollections(ctx context.Context, q querier, ev *models.Event) error {
	for i, id := range ev.ProposedActivityIDs {
		_, err := q.ExecContext(ctx, `INSERT INTO event_proposed_activities(event_id, activity_id, position) VALUES(?, ?, ?)`,
			ev.ID, id, i)
		if err != nil {
			return storeErr(err, "proposed activity")
		}
	}
	for i, id := range ev.ExcludedActivityIDs {
		_, err := q.ExecContext(ctx, `INSERT INTO event_excluded_activities(event_id, activity_id, position) VALUES(?, ?, ?)`,
			ev.ID, id, i)
		if err != nil {
			return storeErr(err, "excluded activity")
		}
	}
	for activityID, ledger := range ev.ActivityVotes {
		for i, v := range ledger {
			// ON CONFLICT keeps the one-vote-per-user rule even if a caller
			// hands over a ledger with duplicates: the later entry wins.
			_, err := q.ExecContext(ctx, `
				INSERT INTO activity_votes(event_id, activity_id, user_id, user_name, vote, voted_at, position)
				VALUES(?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(event_id, activity_id, user_id) DO UPDATE SET
					user_name = excluded.user_name,
					vote = excluded.vote,
					voted_at = excluded.voted_at,
					position = excluded.position`,
				ev.ID, activityID, v.UserID, v.UserName, v.Value, v.VotedAt.UTC(), i)
			if err != nil {
				return storeErr(err, "vote")
			}
		}
	}
	for i, opt := range ev.DateOptions {
		_, err := q.ExecContext(ctx, `
			INSERT INTO date_options(id, event_id, option_date, start_time, end_time, position)
			VALUES(?, ?, ?, ?, ?, ?)`,
			opt.ID, ev.ID, opt.Date.UTC(), opt.StartTime, opt.EndTime, i)
		if err != nil {
			return storeErr(err, "date option")
		}
		for j, r := range opt.Responses {
			_, err := q.ExecContext(ctx, `
				INSERT INTO date_responses(date_option_id, user_id, user_name, response, is_priority, contribution, note, responded_at, position)
				VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(date_option_id, user_id) DO UPDATE SET
					user_name = excluded.user_name,
					response = excluded.response,
					is_priority = excluded.is_priority,
					contribution = excluded.contribution,
					note = excluded.note,
					responded_at = excluded.responded_at,
					position = excluded.position`,
				opt.ID, r.UserID, r.UserName, r.Response, r.IsPriority, nullFloat(r.Contribution), r.Note, r.RespondedAt.UTC(), j)
			if err != nil {
				return storeErr(err, "date response")
			}
		}
	}
	for i, p := range ev.Participants {
		_, err := q.ExecContext(ctx, `
			INSERT INTO event_participants(event_id, user_id, user_name, is_organizer, joined_at, position)
			VALUES(?, ?, ?, ?, ?, ?)`,
			ev.ID, p.UserID, p.UserName, p.IsOrganizer, p.JoinedAt.UTC(), i)
		if err != nil {
			return storeErr(err, "participant")
		}
	}
	return nil
}

// readCollections fills ev's collections. Each query's rows are drained
// and closed before the next one starts since the pool holds a single
// connection.
func readCollections(ctx context.Context, q querier, ev *models.Event) error {
	var err error
	if ev.ProposedActivityIDs, err = readActivityIDs(ctx, q, "event_proposed_activities", ev.ID); err != nil {
		return err
	}
	if ev.ExcludedActivityIDs, err = readActivityIDs(ctx, q, "event_excluded_activities", ev.ID); err != nil {
		return err
	}
	if ev.ActivityVotes, err = readVotes(ctx, q, ev.ID); err != nil {
		return err
	}
	if ev.DateOptions, err = readDateOptions(ctx, q, ev.ID); err != nil {
		return err
	}
	if err := readDateResponses(ctx, q, ev); err != nil {
		return err
	}
	ev.Participants, err = readParticipants(ctx, q, ev.ID)
	return err
}

func readActivityIDs(ctx context.Context, q querier, table, eventID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT activity_id FROM `+table+` WHERE event_id = ? ORDER BY position`, eventID)
	if err != nil {
		return nil, storeErr(err, table)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr(err, table)
		}
		ids = append(ids, id)
	}
	return ids, storeErr(rows.Err(), table)
}

func readVotes(ctx context.Context, q querier, eventID string) (map[string][]models.Vote, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT activity_id, user_id, user_name, vote, voted_at
		FROM activity_votes
		WHERE event_id = ?
		ORDER BY activity_id, position`, eventID)
	if err != nil {
		return nil, storeErr(err, "vote")
	}
	defer rows.Close()

	votes := make(map[string][]models.Vote)
	for rows.Next() {
		var (
			activityID string
			v          models.Vote
		)
		if err := rows.Scan(&activityID, &v.UserID, &v.UserName, &v.Value, &v.VotedAt); err != nil {
			return nil, storeErr(err, "vote")
		}
		votes[activityID] = append(votes[activityID], v)
	}
	return votes, storeErr(rows.Err(), "vote")
}

func readDateOptions(ctx context.Context, q querier, eventID string) ([]models.DateOption, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, option_date, start_time, end_time
		FROM date_options
		WHERE event_id = ?
		ORDER BY position`, eventID)
	if err != nil {
		return nil, storeErr(err, "date option")
	}
	defer rows.Close()

	var opts []models.DateOption
	for rows.Next() {
		var opt models.DateOption
		if err := rows.Scan(&opt.ID, &opt.Date, &opt.StartTime, &opt.EndTime); err != nil {
			return nil, storeErr(err, "date option")
		}
		opts = append(opts, opt)
	}
	return opts, storeErr(rows.Err(), "date option")
}

func readDateResponses(ctx context.Context, q querier, ev *models.Event) error {
	rows, err := q.QueryContext(ctx, `
		SELECT r.date_option_id, r.user_id, r.user_name, r.response, r.is_priority, r.contribution, r.note, r.responded_at
		FROM date_responses r
		JOIN date_options o ON r.date_option_id = o.id
		WHERE o.event_id = ?
		ORDER BY o.position, r.position`, ev.ID)
	if err != nil {
		return storeErr(err, "date response")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			optionID     string
			r            models.DateResponse
			contribution sql.NullFloat64
		)
		err := rows.Scan(&optionID, &r.UserID, &r.UserName, &r.Response, &r.IsPriority, &contribution, &r.Note, &r.RespondedAt)
		if err != nil {
			return storeErr(err, "date response")
		}
		if contribution.Valid {
			r.Contribution = &contribution.Float64
		}
		if opt := ev.DateOption(optionID); opt != nil {
			opt.Responses = append(opt.Responses, r)
		}
	}
	return storeErr(rows.Err(), "date response")
}

func readParticipants(ctx context.Context, q querier, eventID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id, user_name, is_organizer, joined_at
		FROM event_participants
		WHERE event_id = ?
		ORDER BY position`, eventID)
	if err != nil {
		return nil, storeErr(err, "participant")
	}
	defer rows.Close()

	var ps []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.UserName, &p.IsOrganizer, &p.JoinedAt); err != nil {
			return nil, storeErr(err, "participant")
		}
		ps = append(ps, p)
	}
	return ps, storeErr(rows.Err(), "participant")
}
