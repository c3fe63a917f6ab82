package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jvrecio/ritmo/internal/models"
)

func (s *Store) AddSession(sess models.Session) error {
	var endTs sql.NullTime
	durationSec := 0
	if end, ok := sess.End(); ok {
		endTs = sql.NullTime{Time: end, Valid: true}
		durationSec = int(end.Sub(sess.StartTs).Seconds())
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, habit_id, start_ts, end_ts, duration_sec)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			end_ts = excluded.end_ts,
			duration_sec = excluded.duration_sec`,
		sess.ID, sess.HabitID, sess.StartTs, endTs, durationSec)

	return err
}

func (s *Store) EndSession(id string, end time.Time) error {
	result, err := s.db.Exec(`
		UPDATE sessions
		SET end_ts = $1,
			duration_sec = EXTRACT(EPOCH FROM ($1 - start_ts))::INTEGER
		WHERE id = $2 AND end_ts IS NULL`,
		end, id)
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
	var endTs sql.NullTime

	err := row.Scan(&sess.ID, &sess.HabitID, &sess.StartTs, &endTs, &sess.DurationSec)
	if err != nil {
		return models.Session{}, err
	}
	if endTs.Valid {
		t := endTs.Time
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
		WHERE habit_id = $1 AND start_ts < $2 AND (end_ts IS NULL OR end_ts > $3)
		ORDER BY start_ts`,
		habitID, to, from)
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
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM sessions WHERE habit_id = $1)", habitID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
