package relayer

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/outbox"
	"github.com/feedmirror/feedmirror/types"
)

// Relayer is the coordinator between the origin and destination gates.
// It classifies incoming events by shape and declared source, keeps the
// per-round pending state, and issues budgeted instructions through the
// two outboxes. Event handling failures are request-local; the loop
// keeps running.
type Relayer struct {
	oracleIdentity feed.Identity
	originIdentity feed.Identity

	db     types.DB
	logger *zap.Logger

	originOutbox      *outbox.Outbox
	destinationOutbox *outbox.Outbox

	eventCh chan feed.RelayEvent
	signals *feed.SignalRing

	mu                 sync.Mutex
	lastProcessedRound uint64
	pendingRounds      map[uint64]PendingRound
}

func NewRelayer(
	oracleIdentity feed.Identity,
	originIdentity feed.Identity,
	db types.DB,
	logger *zap.Logger,
	originOutbox *outbox.Outbox,
	destinationOutbox *outbox.Outbox,
) *Relayer {
	return &Relayer{
		oracleIdentity:    oracleIdentity,
		originIdentity:    originIdentity,
		db:                db,
		logger:            logger,
		originOutbox:      originOutbox,
		destinationOutbox: destinationOutbox,
		eventCh:           make(chan feed.RelayEvent, 64),
		signals:           feed.NewSignalRing(types.RelayerName, 100),
		pendingRounds:     make(map[uint64]PendingRound),
	}
}

func (r *Relayer) Initialize(ctx types.Context) error {
	lastProcessedRound, err := GetLastProcessedRound(r.db)
	if err != nil {
		return err
	}

	pendingRounds, err := LoadPendingRounds(r.db)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.lastProcessedRound = lastProcessedRound
	for _, pendingRound := range pendingRounds {
		r.pendingRounds[pendingRound.RoundID] = pendingRound
	}
	r.mu.Unlock()

	r.logger.Info("relayer initialized",
		zap.Uint64("last_processed_round", lastProcessedRound),
		zap.Int("pending_rounds", len(pendingRounds)))
	return nil
}

// EventCh is the inbound side of the relayer; the oracle and the origin
// gate publish into it.
func (r *Relayer) EventCh() chan<- feed.RelayEvent {
	return r.eventCh
}

// Start consumes events until the context is done and drives the
// heartbeat ticker.
func (r *Relayer) Start(ctx types.Context) error {
	ticker := time.NewTicker(ctx.HeartbeatInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.HandleEvent(ctx, feed.NewHeartbeat(time.Now().UTC())); err != nil {
				r.logger.Error("failed to handle heartbeat", zap.String("error", err.Error()))
			}
		case event := <-r.eventCh:
			if err := r.HandleEvent(ctx, event); err != nil {
				r.logger.Error("failed to handle event",
					zap.String("event", event.String()),
					zap.String("error", err.Error()))
			}
		}
	}
}

func (r *Relayer) LastProcessedRound() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastProcessedRound
}

// IsPending reports whether the given round is awaiting enrichment.
func (r *Relayer) IsPending(roundID uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pendingRounds[roundID]
	return ok
}

func (r *Relayer) PendingRounds() []PendingRound {
	r.mu.Lock()
	defer r.mu.Unlock()

	pendingRounds := make([]PendingRound, 0, len(r.pendingRounds))
	for _, pendingRound := range r.pendingRounds {
		pendingRounds = append(pendingRounds, pendingRound)
	}
	return pendingRounds
}

func (r *Relayer) Signals() *feed.SignalRing {
	return r.signals
}
