package schedule

import (
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// Overlay masks the read-after-write race between optimistic local
// mutation and delayed remote confirmation: a locally-queued write patches
// freshly-arrived remote values until the remote echoes it back or the
// entry outlives its TTL.
type Overlay struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]overlayEntry
	now     func() time.Time
}

type overlayEntry struct {
	minutes float64
	hash    uint64
	at      time.Time
}

// NewOverlay creates an overlay with the given entry time-to-live.
func NewOverlay(ttl time.Duration) *Overlay {
	return &Overlay{
		ttl:     ttl,
		entries: make(map[string]overlayEntry),
		now:     time.Now,
	}
}

// SetNow overrides the overlay clock for tests.
func (o *Overlay) SetNow(now func() time.Time) {
	o.mu.Lock()
	o.now = now
	o.mu.Unlock()
}

func overlayKey(habitID, dayKey string) string {
	return habitID + "|" + dayKey
}

func hashMinutes(minutes float64) uint64 {
	h, err := hashstructure.Hash(minutes, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// Put queues a locally-written minute total for a habit and day.
func (o *Overlay) Put(habitID, dayKey string, minutes float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[overlayKey(habitID, dayKey)] = overlayEntry{
		minutes: minutes,
		hash:    hashMinutes(minutes),
		at:      o.now(),
	}
}

// Patch reconciles a remote minute total with any pending local write.
// A pending write wins over a stale remote value; once the remote echoes
// the written value (or the entry expires) the entry is dropped and the
// remote value passes through.
func (o *Overlay) Patch(habitID, dayKey string, remote float64) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	key := overlayKey(habitID, dayKey)
	entry, ok := o.entries[key]
	if !ok {
		return remote
	}
	if o.now().Sub(entry.at) > o.ttl {
		delete(o.entries, key)
		return remote
	}
	if hashMinutes(remote) == entry.hash {
		// Echoed back; the write is confirmed.
		delete(o.entries, key)
		return remote
	}
	return entry.minutes
}

// Pending reports how many writes are still awaiting their echo.
func (o *Overlay) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, entry := range o.entries {
		if o.now().Sub(entry.at) <= o.ttl {
			n++
		}
	}
	return n
}
