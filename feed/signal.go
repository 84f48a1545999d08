package feed

import (
	"sync"
	"time"

	"cosmossdk.io/math"
)

// SignalKind classifies observable component signals. Signals are
// deliberately distinct from errors: a duplicate redelivery is reported
// here, never as a failure.
type SignalKind string

const (
	SignalProcessingStarted SignalKind = "processing_started"
	SignalDuplicateSkipped  SignalKind = "duplicate_skipped"
	SignalMirrored          SignalKind = "mirrored"
	SignalFallbackTriggered SignalKind = "fallback_triggered"
	SignalEnriched          SignalKind = "enriched"
	SignalUpdated           SignalKind = "updated"
)

var SignalKinds = []SignalKind{
	SignalProcessingStarted,
	SignalDuplicateSkipped,
	SignalMirrored,
	SignalFallbackTriggered,
	SignalEnriched,
	SignalUpdated,
}

type Signal struct {
	Kind      SignalKind `json:"kind"`
	Component string     `json:"component"`
	RoundID   uint64     `json:"round_id,omitempty"`
	Answer    *math.Int  `json:"answer,omitempty"`
	UpdatedAt uint64     `json:"updated_at,omitempty"`
	Time      time.Time  `json:"time"`
}

// SignalRing is a bounded thread-safe buffer of recent signals, exposed
// through the queriers.
type SignalRing struct {
	mu        sync.RWMutex
	component string
	signals   []Signal
	size      int
	head      int
	count     int
}

func NewSignalRing(component string, size int) *SignalRing {
	if size <= 0 {
		size = 100
	}
	return &SignalRing{
		component: component,
		signals:   make([]Signal, size),
		size:      size,
	}
}

func (r *SignalRing) Emit(signal Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	signal.Component = r.component
	if signal.Time.IsZero() {
		signal.Time = time.Now().UTC()
	}

	r.signals[r.head] = signal
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// Recent returns up to n signals, most recent first.
func (r *SignalRing) Recent(n int) []Signal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	result := make([]Signal, n)
	for i := 0; i < n; i++ {
		idx := (r.head - 1 - i + r.size) % r.size
		result[i] = r.signals[idx]
	}
	return result
}

// Count returns the number of buffered signals of the given kind.
func (r *SignalRing) Count(kind SignalKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for i := 0; i < r.count; i++ {
		idx := (r.head - 1 - i + r.size) % r.size
		if r.signals[idx].Kind == kind {
			count++
		}
	}
	return count
}
