package schedule

import (
	"time"

	"github.com/jvrecio/ritmo/internal/constants"
	"github.com/jvrecio/ritmo/internal/utils"
)

// Chunk is the share of a session that falls within one schedule day.
type Chunk struct {
	DayKey  string
	Minutes float64
}

// ParseCloseTime converts a day-close time (HH:MM) into minutes since
// local midnight. Malformed input degrades to 0 (midnight close).
func ParseCloseTime(s string) int {
	min, err := utils.ParseTimeToMinutes(s)
	if err != nil || min < 0 || min >= 24*60 {
		return 0
	}
	return min
}

// scheduleDayStart returns the start instant of the schedule day that
// contains t. A schedule day runs from closeMin on calendar day D to
// closeMin on day D+1; boundaries are civil/local time, so days crossing
// a DST transition are 23 or 25 hours long.
func scheduleDayStart(t time.Time, closeMin int, loc *time.Location) time.Time {
	local := t.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	day := 0
	if minutes < closeMin {
		day = -1
	}
	return time.Date(local.Year(), local.Month(), local.Day()+day, closeMin/60, closeMin%60, 0, 0, loc)
}

// DayKeyAt returns the key (YYYY-MM-DD) of the schedule day containing t:
// the calendar date of the day's start.
func DayKeyAt(t time.Time, closeMin int, loc *time.Location) string {
	return scheduleDayStart(t, closeMin, loc).Format(constants.DateFormat)
}

// DayBounds returns the [start, end) instants of the schedule day with the
// given key.
func DayBounds(dayKey string, closeMin int, loc *time.Location) (time.Time, time.Time, error) {
	date, err := utils.ParseDateInLocation(dayKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), closeMin/60, closeMin%60, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day()+1, closeMin/60, closeMin%60, 0, 0, loc)
	return start, end, nil
}

// SplitInterval partitions [start, end) into per-schedule-day minute
// chunks. The chunks are ordered, contiguous and non-overlapping, and
// their minutes sum to exactly the span's length: nothing is lost or
// double-counted. Degenerate spans produce no chunks.
func SplitInterval(start, end time.Time, closeMin int, loc *time.Location) []Chunk {
	if !end.After(start) {
		return nil
	}

	var chunks []Chunk
	cursor := start
	for cursor.Before(end) {
		dayStart := scheduleDayStart(cursor, closeMin, loc)
		local := dayStart.In(loc)
		boundary := time.Date(local.Year(), local.Month(), local.Day()+1, closeMin/60, closeMin%60, 0, 0, loc)

		chunkEnd := boundary
		if end.Before(boundary) {
			chunkEnd = end
		}
		chunks = append(chunks, Chunk{
			DayKey:  dayStart.Format(constants.DateFormat),
			Minutes: chunkEnd.Sub(cursor).Minutes(),
		})
		cursor = chunkEnd
	}
	return chunks
}
