package models

import (
	"math"
	"testing"
)

func TestNormalizeEntry_ValidModes(t *testing.T) {
	entry, ok := NormalizeEntry("target_min", 60)
	if !ok || entry.Mode != ModeTargetMinutes || entry.Value != 60 {
		t.Errorf("got (%+v, %v), want target_min/60", entry, ok)
	}

	entry, ok = NormalizeEntry("limit_count", 2)
	if !ok || entry.Mode != ModeLimitCount || entry.Value != 2 {
		t.Errorf("got (%+v, %v), want limit_count/2", entry, ok)
	}
}

func TestNormalizeEntry_UnknownModeDropped(t *testing.T) {
	if _, ok := NormalizeEntry("objetivo", 60); ok {
		t.Error("unknown mode was not dropped")
	}
	if _, ok := NormalizeEntry("", 60); ok {
		t.Error("empty mode was not dropped")
	}
}

func TestNormalizeEntry_NeutralForcesZero(t *testing.T) {
	entry, ok := NormalizeEntry("neutral", 45)
	if !ok {
		t.Fatal("neutral entry was dropped")
	}
	if entry.Value != 0 {
		t.Errorf("neutral value = %d, want 0", entry.Value)
	}
}

func TestNormalizeEntry_ZeroValueScoredModeDropped(t *testing.T) {
	if _, ok := NormalizeEntry("target_min", 0); ok {
		t.Error("zero-valued goal was not dropped")
	}
	if _, ok := NormalizeEntry("limit_min", 0); ok {
		t.Error("zero-valued limit was not dropped")
	}
}

func TestNormalizeEntry_NonFiniteCoerced(t *testing.T) {
	if _, ok := NormalizeEntry("target_min", math.NaN()); ok {
		t.Error("NaN value should coerce to 0 and drop the entry")
	}
	if _, ok := NormalizeEntry("target_min", math.Inf(1)); ok {
		t.Error("Inf value should coerce to 0 and drop the entry")
	}
	if _, ok := NormalizeEntry("target_min", -30); ok {
		t.Error("negative value should coerce to 0 and drop the entry")
	}

	entry, ok := NormalizeEntry("neutral", math.NaN())
	if !ok || entry.Value != 0 {
		t.Errorf("neutral with NaN = (%+v, %v), want value 0", entry, ok)
	}
}

func TestMode_Classification(t *testing.T) {
	if !ModeTargetCount.IsGoal() || !ModeTargetCount.IsCount() {
		t.Error("target_count should be a counted goal")
	}
	if !ModeLimitMinutes.IsLimit() || ModeLimitMinutes.IsCount() {
		t.Error("limit_min should be a minute limit")
	}
	if ModeNeutral.IsGoal() || ModeNeutral.IsLimit() {
		t.Error("neutral is neither goal nor limit")
	}
}
