package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/jvrecio/ritmo/internal/models"
)

// Templates

func (s *Store) GetTemplateAssignments() ([]models.TemplateAssignment, error) {
	rows, err := s.db.Query(`
		SELECT shift, weekday, habit_id, mode, value
		FROM template_entries ORDER BY shift, weekday, habit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.TemplateAssignment
	for rows.Next() {
		var a models.TemplateAssignment
		var shift, mode string
		var value int
		if err := rows.Scan(&shift, &a.Weekday, &a.HabitID, &mode, &value); err != nil {
			return nil, err
		}
		a.Shift = models.ParseShiftType(shift)
		entry, ok := models.NormalizeEntry(mode, float64(value))
		if !ok {
			continue
		}
		a.Entry = entry
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

func (s *Store) SaveTemplateEntry(shift models.ShiftType, weekday string, habitID string, entry models.TemplateEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO template_entries (shift, weekday, habit_id, mode, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(shift, weekday, habit_id) DO UPDATE SET
			mode = excluded.mode,
			value = excluded.value`,
		string(shift), weekday, habitID, string(entry.Mode), entry.Value)
	return err
}

func (s *Store) DeleteTemplateEntry(shift models.ShiftType, weekday string, habitID string) error {
	_, err := s.db.Exec(
		"DELETE FROM template_entries WHERE shift = ? AND weekday = ? AND habit_id = ?",
		string(shift), weekday, habitID)
	return err
}

// Settings

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Shifts

func (s *Store) SetShift(dayKey string, shift models.ShiftType) error {
	_, err := s.db.Exec(`
		INSERT INTO shifts (day, shift) VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET shift = excluded.shift`,
		dayKey, string(shift))
	return err
}

func (s *Store) GetShift(dayKey string) (models.ShiftType, bool, error) {
	var shift string
	err := s.db.QueryRow("SELECT shift FROM shifts WHERE day = ?", dayKey).Scan(&shift)
	if err == sql.ErrNoRows {
		return models.ShiftFree, false, nil
	}
	if err != nil {
		return models.ShiftFree, false, err
	}
	return models.ParseShiftType(shift), true, nil
}
