package origin

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// EnrichRound reads the record for the given round from the upstream
// oracle, validates it, and publishes it as an enrichment notification.
// The cursor advance is committed before the notification is emitted.
func (g *Gate) EnrichRound(ctx types.Context, call feed.CallContext, roundID uint64) error {
	if !call.IsRelay(g.relayIdentity) {
		return errors.Wrapf(types.ErrUnauthorizedCaller, "caller %s, originator %s", call.Caller, call.Originator)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// one check covers both duplicate and backwards requests
	if roundID <= g.lastProcessedRound {
		return errors.Wrapf(types.ErrStaleRound, "round %d, last processed %d", roundID, g.lastProcessedRound)
	}

	record, err := g.reader.GetRoundData(ctx, roundID)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidRoundData, "round %d: %s", roundID, err.Error())
	}
	if record.RoundID != roundID {
		return errors.Wrapf(types.ErrInvalidRoundData, "requested round %d, got %d", roundID, record.RoundID)
	}
	if record.UpdatedAt == 0 {
		return errors.Wrapf(types.ErrInvalidRoundData, "round %d has zero updated_at", roundID)
	}
	if err := g.checkStaleness(record); err != nil {
		return err
	}

	return g.commitAndPublish(record)
}

// EnrichLatest is the heartbeat fallback path: it enriches whatever the
// upstream oracle currently reports as latest. A latest round at or
// below the cursor is not an error; the call reports relayed=false and
// does nothing.
func (g *Gate) EnrichLatest(ctx types.Context, call feed.CallContext) (relayed bool, err error) {
	if !call.IsRelay(g.relayIdentity) {
		return false, errors.Wrapf(types.ErrUnauthorizedCaller, "caller %s, originator %s", call.Caller, call.Originator)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	record, err := g.reader.LatestRoundData(ctx)
	if err != nil {
		return false, errors.Wrapf(types.ErrInvalidRoundData, "latest round: %s", err.Error())
	}
	if record.UpdatedAt == 0 {
		return false, errors.Wrapf(types.ErrInvalidRoundData, "round %d has zero updated_at", record.RoundID)
	}

	// nothing new to report is not a caller error
	if record.RoundID <= g.lastProcessedRound {
		return false, nil
	}

	if err := g.checkStaleness(record); err != nil {
		return false, err
	}

	if err := g.commitAndPublish(record); err != nil {
		return false, err
	}
	return true, nil
}

// checkStaleness rejects records older than the bound. Age exactly at
// the bound is accepted.
func (g *Gate) checkStaleness(record feed.RoundRecord) error {
	now := types.CurrentUnixTime()
	if now > record.UpdatedAt {
		age := time.Duration(now-record.UpdatedAt) * time.Second
		if age > g.stalenessBound {
			return errors.Wrapf(types.ErrStaleData, "round %d age %s exceeds bound %s", record.RoundID, age, g.stalenessBound)
		}
	}
	return nil
}

// commitAndPublish advances the cursor, then emits the notification.
// Callers hold the gate mutex.
func (g *Gate) commitAndPublish(record feed.RoundRecord) error {
	checksum, err := record.Checksum()
	if err != nil {
		return errors.Wrap(err, "failed to checksum record")
	}

	if err := SaveLastProcessedRound(g.db, record.RoundID); err != nil {
		return errors.Wrap(err, "failed to save last processed round")
	}
	g.lastProcessedRound = record.RoundID
	g.lastEnrichedTime = time.Now().UTC()

	g.signals.Emit(feed.Signal{
		Kind:      feed.SignalEnriched,
		RoundID:   record.RoundID,
		Answer:    &record.Answer,
		UpdatedAt: record.UpdatedAt,
	})
	g.logger.Info("round enriched",
		zap.Uint64("round_id", record.RoundID),
		zap.String("answer", record.Answer.String()),
		zap.Uint64("updated_at", record.UpdatedAt))

	g.eventCh <- feed.NewEnrichmentComplete(record, checksum, g.identity, time.Now().UTC())
	return nil
}
