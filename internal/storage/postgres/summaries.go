package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jvrecio/ritmo/internal/models"
)

func (s *Store) SaveSummary(sum models.DaySummary) error {
	payload, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("failed to marshal summary for %s: %w", sum.DayKey, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO summaries (day, payload, closed_at, close_source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day) DO UPDATE SET
			payload = excluded.payload,
			closed_at = excluded.closed_at,
			close_source = excluded.close_source`,
		sum.DayKey, string(payload), sum.ClosedAt, sum.CloseSource)

	return err
}

func (s *Store) GetSummary(dayKey string) (models.DaySummary, bool, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM summaries WHERE day = $1", dayKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.DaySummary{}, false, nil
	}
	if err != nil {
		return models.DaySummary{}, false, err
	}

	var sum models.DaySummary
	if err := json.Unmarshal([]byte(payload), &sum); err != nil {
		return models.DaySummary{}, false, fmt.Errorf("failed to unmarshal summary for %s: %w", dayKey, err)
	}
	return sum, true, nil
}

func (s *Store) GetSummaries(startDay, endDay string) ([]models.DaySummary, error) {
	rows, err := s.db.Query(`
		SELECT payload FROM summaries
		WHERE day >= $1 AND day <= $2
		ORDER BY day DESC`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.DaySummary
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var sum models.DaySummary
		if err := json.Unmarshal([]byte(payload), &sum); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

func (s *Store) SetAutoCloseMarker(dayKey, closeTime string) error {
	_, err := s.db.Exec(`
		INSERT INTO auto_close_markers (day, close_time, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (day, close_time) DO NOTHING`,
		dayKey, closeTime, time.Now())
	return err
}

func (s *Store) HasAutoCloseMarker(dayKey, closeTime string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM auto_close_markers WHERE day = $1 AND close_time = $2)",
		dayKey, closeTime).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
