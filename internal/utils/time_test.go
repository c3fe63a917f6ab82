package utils

import (
	"testing"
	"time"
)

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"05:00", 300, true},
		{"23:59", 1439, true},
		{"5:00", 0, false},
		{"25:00", 0, false},
		{"noon", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTimeToMinutes(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseTimeToMinutes(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-03-01", -1)
	if err != nil || got != "2026-02-28" {
		t.Errorf("AddDays(2026-03-01, -1) = %q, %v", got, err)
	}
	got, err = AddDays("2026-12-31", 1)
	if err != nil || got != "2027-01-01" {
		t.Errorf("AddDays(2026-12-31, 1) = %q, %v", got, err)
	}
	if _, err := AddDays("not-a-date", 1); err == nil {
		t.Error("AddDays should reject malformed dates")
	}
}

func TestWeekdayKeyRoundTrip(t *testing.T) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		key := WeekdayKey(wd)
		parsed, err := ParseWeekday(key)
		if err != nil {
			t.Fatalf("ParseWeekday(%q): %v", key, err)
		}
		if parsed != wd {
			t.Errorf("ParseWeekday(WeekdayKey(%v)) = %v", wd, parsed)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	if wd, err := ParseWeekday(" Monday "); err != nil || wd != time.Monday {
		t.Errorf("ParseWeekday(\" Monday \") = %v, %v", wd, err)
	}
	if wd, err := ParseWeekday("THU"); err != nil || wd != time.Thursday {
		t.Errorf("ParseWeekday(\"THU\") = %v, %v", wd, err)
	}
	if _, err := ParseWeekday("someday"); err == nil {
		t.Error("ParseWeekday should reject unknown names")
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc, err := LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got, err := ParseDateInLocation("2026-03-15", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation: %v", err)
	}
	if got.Hour() != 0 || got.Location() != loc {
		t.Errorf("got %v, want midnight in %v", got, loc)
	}
	if FormatDate(got) != "2026-03-15" {
		t.Errorf("FormatDate(%v) = %q", got, FormatDate(got))
	}
}

func TestValidateTimeFormat(t *testing.T) {
	if !ValidateTimeFormat("05:00") {
		t.Error("05:00 should be valid")
	}
	if ValidateTimeFormat("0500") {
		t.Error("0500 should be invalid")
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("") || !ValidateTimezone("Local") {
		t.Error("empty and Local are always valid")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("unknown zones should be invalid")
	}
}
