package models

import "time"

// Session is one raw timed activity interval for a habit. Either EndTs or
// DurationSec resolves the end; a session with neither is still running.
type Session struct {
	ID          string     `json:"id"`
	HabitID     string     `json:"habit_id"`
	StartTs     time.Time  `json:"start_ts"`
	EndTs       *time.Time `json:"end_ts,omitempty"`
	DurationSec int        `json:"duration_sec,omitempty"`
}

// End resolves the session end instant. ok is false when the session has
// no resolvable end, i.e. it is still running.
func (s Session) End() (end time.Time, ok bool) {
	if s.EndTs != nil && s.EndTs.After(s.StartTs) {
		return *s.EndTs, true
	}
	if s.DurationSec > 0 {
		return s.StartTs.Add(time.Duration(s.DurationSec) * time.Second), true
	}
	return time.Time{}, false
}

// Running reports whether the session has no resolvable end.
func (s Session) Running() bool {
	_, ok := s.End()
	return !ok
}
