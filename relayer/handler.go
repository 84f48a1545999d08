package relayer

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/outbox"
	"github.com/feedmirror/feedmirror/types"
)

// HandleEvent classifies one inbound event and runs the per-round state
// machine. Classification covers both the shape and the declared
// source: a point update not from the configured oracle, or an
// enrichment notification not from the configured origin gate, is an
// unknown event, not an authorization failure.
func (r *Relayer) HandleEvent(ctx types.Context, event feed.RelayEvent) error {
	switch event := event.(type) {
	case *feed.PointUpdate:
		if event.Source() != r.oracleIdentity {
			return errors.Wrapf(types.ErrUnknownEvent, "point update from %s", event.Source())
		}
		return r.handlePointUpdate(ctx, event)
	case *feed.EnrichmentComplete:
		if event.Source() != r.originIdentity {
			return errors.Wrapf(types.ErrUnknownEvent, "enrichment notification from %s", event.Source())
		}
		return r.handleEnrichmentComplete(ctx, event)
	case *feed.Heartbeat:
		return r.handleHeartbeat(ctx, event)
	default:
		return errors.Wrapf(types.ErrUnknownEvent, "%T", event)
	}
}

// handlePointUpdate starts tracking a new round and requests its
// enrichment. Rounds at or below the cursor and rounds already pending
// are skipped with a signal, never an error.
func (r *Relayer) handlePointUpdate(ctx types.Context, event *feed.PointUpdate) error {
	r.mu.Lock()

	_, alreadyPending := r.pendingRounds[event.RoundID]
	if event.RoundID <= r.lastProcessedRound || alreadyPending {
		r.mu.Unlock()

		r.signals.Emit(feed.Signal{
			Kind:    feed.SignalDuplicateSkipped,
			RoundID: event.RoundID,
		})
		r.logger.Debug("duplicate point update skipped", zap.Uint64("round_id", event.RoundID))
		return nil
	}

	pendingRound := NewPendingRound(event.RoundID, time.Now().UTC())
	if err := SavePendingRound(r.db, pendingRound); err != nil {
		r.mu.Unlock()
		return errors.Wrap(err, "failed to save pending round")
	}
	r.pendingRounds[event.RoundID] = pendingRound
	r.mu.Unlock()

	r.signals.Emit(feed.Signal{
		Kind:    feed.SignalProcessingStarted,
		RoundID: event.RoundID,
	})
	r.logger.Info("round processing started", zap.Uint64("round_id", event.RoundID))

	return r.originOutbox.Push(outbox.KindEnrichRound, event.RoundID, nil)
}

// handleEnrichmentComplete clears the pending entry, advances the
// cursor and forwards the record to the destination. The pending clear
// is unconditional; rounds enriched through the heartbeat path never
// had a pending entry.
func (r *Relayer) handleEnrichmentComplete(ctx types.Context, event *feed.EnrichmentComplete) error {
	record := event.Record

	r.mu.Lock()

	if _, ok := r.pendingRounds[record.RoundID]; ok {
		if err := DeletePendingRound(r.db, record.RoundID); err != nil {
			r.mu.Unlock()
			return errors.Wrap(err, "failed to delete pending round")
		}
		delete(r.pendingRounds, record.RoundID)
	}

	checksum, err := record.Checksum()
	if err != nil {
		r.mu.Unlock()
		return errors.Wrap(err, "failed to checksum record")
	}
	if !bytes.Equal(checksum, event.Checksum) {
		r.mu.Unlock()
		return errors.Wrapf(types.ErrInvalidRoundData, "checksum mismatch for round %d", record.RoundID)
	}

	if record.RoundID > r.lastProcessedRound {
		if err := SaveLastProcessedRound(r.db, record.RoundID); err != nil {
			r.mu.Unlock()
			return errors.Wrap(err, "failed to save last processed round")
		}
		r.lastProcessedRound = record.RoundID
	}
	r.mu.Unlock()

	r.signals.Emit(feed.Signal{
		Kind:      feed.SignalMirrored,
		RoundID:   record.RoundID,
		Answer:    &record.Answer,
		UpdatedAt: record.UpdatedAt,
	})
	r.logger.Info("round mirrored",
		zap.Uint64("round_id", record.RoundID),
		zap.String("answer", record.Answer.String()))

	return r.destinationOutbox.Push(outbox.KindIngest, record.RoundID, &record)
}

// handleHeartbeat is a stateless nudge: it neither consults nor mutates
// pending state.
func (r *Relayer) handleHeartbeat(ctx types.Context, event *feed.Heartbeat) error {
	r.signals.Emit(feed.Signal{
		Kind: feed.SignalFallbackTriggered,
	})
	r.logger.Info("heartbeat fallback triggered")

	return r.originOutbox.Push(outbox.KindEnrichLatest, 0, nil)
}
