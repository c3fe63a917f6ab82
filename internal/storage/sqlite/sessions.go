package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jvrecio/ritmo/internal/models"
)

// Timestamps are stored as UTC RFC3339 so lexicographic comparison in SQL
// matches time order.

func (s *Store) AddSession(sess models.Session) error {
	var endTs sql.NullString
	durationSec := 0
	if end, ok := sess.End(); ok {
		endTs = sql.NullString{String: end.UTC().Format(time.RFC3339), Valid: true}
		durationSec = int(end.Sub(sess.StartTs).Seconds())
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, habit_id, start_ts, end_ts, duration_sec)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			end_ts = excluded.end_ts,
			duration_sec = excluded.duration_sec`,
		sess.ID, sess.HabitID, sess.StartTs.UTC().Format(time.RFC3339), endTs, durationSec)

	return err
}

func (s *Store) EndSession(id string, end time.Time) error {
	result, err := s.db.Exec(`
		UPDATE sessions
		SET end_ts = ?,
			duration_sec = CAST(ROUND((julianday(?) - julianday(start_ts)) * 86400) AS INTEGER)
		WHERE id = ? AND end_ts IS NULL`,
		end.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("session not found or already ended")
	}

	return nil
}

func scanSession(row interface{ Scan(...any) error }) (models.Session, error) {
	var sess models.Session
	var startTs string
	var endTs sql.NullString

	err := row.Scan(&sess.ID, &sess.HabitID, &startTs, &endTs, &sess.DurationSec)
	if err != nil {
		return models.Session{}, err
	}

	sess.StartTs, err = time.Parse(time.RFC3339, startTs)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to parse start_ts: %w", err)
	}
	if endTs.Valid {
		t, err := time.Parse(time.RFC3339, endTs.String)
		if err != nil {
			return models.Session{}, fmt.Errorf("failed to parse end_ts: %w", err)
		}
		sess.EndTs = &t
	}

	return sess, nil
}

func (s *Store) RunningSession() (*models.Session, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, start_ts, end_ts, duration_sec
		FROM sessions WHERE end_ts IS NULL
		ORDER BY start_ts DESC LIMIT 1`)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) SessionsInRange(habitID string, from, to time.Time) ([]models.Session, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, start_ts, end_ts, duration_sec
		FROM sessions
		WHERE habit_id = ? AND start_ts < ? AND (end_ts IS NULL OR end_ts > ?)
		ORDER BY start_ts`,
		habitID, to.UTC().Format(time.RFC3339), from.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

func (s *Store) HasTimeline(habitID string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM sessions WHERE habit_id = ?)", habitID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}
