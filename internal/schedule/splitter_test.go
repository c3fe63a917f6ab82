package schedule

import (
	"math"
	"testing"
	"time"
)

func ts(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestSplitInterval_MidnightCrossing(t *testing.T) {
	// 23:30 -> 00:30 across a midnight close splits 30/30.
	chunks := SplitInterval(ts(2026, 3, 1, 23, 30), ts(2026, 3, 2, 0, 30), 0, time.UTC)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].DayKey != "2026-03-01" || chunks[0].Minutes != 30 {
		t.Errorf("first chunk = %+v, want 2026-03-01 / 30", chunks[0])
	}
	if chunks[1].DayKey != "2026-03-02" || chunks[1].Minutes != 30 {
		t.Errorf("second chunk = %+v, want 2026-03-02 / 30", chunks[1])
	}
}

func TestSplitInterval_LongEvening(t *testing.T) {
	// 22:00 -> 01:00 splits 120/60.
	chunks := SplitInterval(ts(2026, 3, 1, 22, 0), ts(2026, 3, 2, 1, 0), 0, time.UTC)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Minutes != 120 || chunks[1].Minutes != 60 {
		t.Errorf("got %v/%v minutes, want 120/60", chunks[0].Minutes, chunks[1].Minutes)
	}
}

func TestSplitInterval_TwoMidnights(t *testing.T) {
	chunks := SplitInterval(ts(2026, 3, 1, 23, 0), ts(2026, 3, 3, 0, 30), 0, time.UTC)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	want := []struct {
		day string
		min float64
	}{
		{"2026-03-01", 60},
		{"2026-03-02", 1440},
		{"2026-03-03", 30},
	}
	for i, w := range want {
		if chunks[i].DayKey != w.day || chunks[i].Minutes != w.min {
			t.Errorf("chunk %d = %+v, want %s / %v", i, chunks[i], w.day, w.min)
		}
	}
}

func TestSplitInterval_Degenerate(t *testing.T) {
	at := ts(2026, 3, 1, 10, 0)
	if chunks := SplitInterval(at, at, 0, time.UTC); chunks != nil {
		t.Errorf("zero span produced chunks: %v", chunks)
	}
	if chunks := SplitInterval(at, at.Add(-time.Hour), 0, time.UTC); chunks != nil {
		t.Errorf("negative span produced chunks: %v", chunks)
	}
}

func TestSplitInterval_CustomCloseTime(t *testing.T) {
	// With a 05:00 close, 04:00 -> 06:00 on March 2 straddles the boundary:
	// the first hour belongs to the schedule day keyed March 1.
	chunks := SplitInterval(ts(2026, 3, 2, 4, 0), ts(2026, 3, 2, 6, 0), 5*60, time.UTC)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].DayKey != "2026-03-01" || chunks[0].Minutes != 60 {
		t.Errorf("first chunk = %+v, want 2026-03-01 / 60", chunks[0])
	}
	if chunks[1].DayKey != "2026-03-02" || chunks[1].Minutes != 60 {
		t.Errorf("second chunk = %+v, want 2026-03-02 / 60", chunks[1])
	}
}

func TestSplitInterval_PartitionLaw(t *testing.T) {
	spans := []struct {
		start, end time.Time
		closeMin   int
	}{
		{ts(2026, 3, 1, 23, 30), ts(2026, 3, 2, 0, 30), 0},
		{ts(2026, 3, 1, 9, 15), ts(2026, 3, 1, 9, 16), 0},
		{ts(2026, 3, 1, 0, 0), ts(2026, 3, 8, 0, 0), 0},
		{ts(2026, 3, 2, 3, 0), ts(2026, 3, 4, 7, 45), 5 * 60},
		{ts(2026, 3, 2, 4, 59), ts(2026, 3, 2, 5, 1), 5 * 60},
		{ts(2026, 3, 2, 22, 0), ts(2026, 3, 3, 23, 59), 23*60 + 30},
	}

	for _, span := range spans {
		chunks := SplitInterval(span.start, span.end, span.closeMin, time.UTC)

		var sum float64
		for _, c := range chunks {
			if c.Minutes <= 0 {
				t.Errorf("span %v: non-positive chunk %+v", span, c)
			}
			sum += c.Minutes
		}
		want := span.end.Sub(span.start).Minutes()
		if math.Abs(sum-want) > 1e-9 {
			t.Errorf("span %v: chunks sum to %v, want %v", span, sum, want)
		}

		for i := 1; i < len(chunks); i++ {
			if chunks[i].DayKey <= chunks[i-1].DayKey {
				t.Errorf("span %v: chunk keys not strictly increasing: %v", span, chunks)
			}
		}
	}
}

func TestDayKeyAt_BeforeClose(t *testing.T) {
	// 02:00 with a 05:00 close still belongs to the previous schedule day.
	if got := DayKeyAt(ts(2026, 3, 2, 2, 0), 5*60, time.UTC); got != "2026-03-01" {
		t.Errorf("DayKeyAt = %s, want 2026-03-01", got)
	}
	if got := DayKeyAt(ts(2026, 3, 2, 5, 0), 5*60, time.UTC); got != "2026-03-02" {
		t.Errorf("DayKeyAt at boundary = %s, want 2026-03-02", got)
	}
}

func TestParseCloseTime(t *testing.T) {
	if got := ParseCloseTime("05:30"); got != 330 {
		t.Errorf("ParseCloseTime(05:30) = %d, want 330", got)
	}
	for _, bad := range []string{"", "banana", "25:00", "12:99"} {
		if got := ParseCloseTime(bad); got != 0 {
			t.Errorf("ParseCloseTime(%q) = %d, want 0", bad, got)
		}
	}
}
