package sqlite

import "database/sql"

func (s *Store) DayMinutes(habitID, dayKey string) (float64, error) {
	var minutes float64
	err := s.db.QueryRow(
		"SELECT minutes FROM day_minutes WHERE habit_id = ? AND day = ?",
		habitID, dayKey).Scan(&minutes)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return minutes, nil
}

func (s *Store) AddDayMinutes(habitID, dayKey string, minutes float64) (float64, error) {
	var total float64
	err := s.db.QueryRow(`
		INSERT INTO day_minutes (habit_id, day, minutes)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET minutes = minutes + excluded.minutes
		RETURNING minutes`,
		habitID, dayKey, minutes).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DayCount(habitID, dayKey string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT count FROM day_counts WHERE habit_id = ? AND day = ?",
		habitID, dayKey).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) AddDayCount(habitID, dayKey string, delta int) error {
	_, err := s.db.Exec(`
		INSERT INTO day_counts (habit_id, day, count)
		VALUES (?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET count = count + excluded.count`,
		habitID, dayKey, delta)
	return err
}
