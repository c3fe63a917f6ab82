package schedule

import (
	"testing"
	"time"
)

func TestOverlay_PendingWriteMasksStaleRemote(t *testing.T) {
	o := NewOverlay(15 * time.Second)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	o.SetNow(func() time.Time { return now })

	o.Put("read", "2026-03-10", 45)
	if got := o.Patch("read", "2026-03-10", 10); got != 45 {
		t.Errorf("Patch = %v, want pending 45 over stale remote 10", got)
	}
	if o.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", o.Pending())
	}
}

func TestOverlay_EchoDropsEntry(t *testing.T) {
	o := NewOverlay(15 * time.Second)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	o.SetNow(func() time.Time { return now })

	o.Put("read", "2026-03-10", 45)
	if got := o.Patch("read", "2026-03-10", 45); got != 45 {
		t.Errorf("Patch on echo = %v, want 45", got)
	}
	if o.Pending() != 0 {
		t.Errorf("Pending after echo = %d, want 0", o.Pending())
	}
	// The entry is gone: a later stale remote passes through untouched.
	if got := o.Patch("read", "2026-03-10", 10); got != 10 {
		t.Errorf("Patch after echo = %v, want remote 10", got)
	}
}

func TestOverlay_ExpiresAfterTTL(t *testing.T) {
	o := NewOverlay(15 * time.Second)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	o.SetNow(func() time.Time { return now })

	o.Put("read", "2026-03-10", 45)
	now = now.Add(16 * time.Second)
	if got := o.Patch("read", "2026-03-10", 10); got != 10 {
		t.Errorf("Patch after TTL = %v, want remote 10", got)
	}
	if o.Pending() != 0 {
		t.Errorf("Pending after expiry = %d, want 0", o.Pending())
	}
}

func TestOverlay_KeysAreIndependent(t *testing.T) {
	o := NewOverlay(15 * time.Second)
	o.Put("read", "2026-03-10", 45)

	if got := o.Patch("read", "2026-03-09", 10); got != 10 {
		t.Errorf("other day patched: %v, want 10", got)
	}
	if got := o.Patch("gym", "2026-03-10", 10); got != 10 {
		t.Errorf("other habit patched: %v, want 10", got)
	}
}
