package destination

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// Ingest accepts one enriched round record from the relay. Redelivery
// of an already-processed round is a signalled no-op; an unprocessed
// round at or below the watermark is an ordering violation. The record
// store, the membership mark and the watermark advance commit in one
// stage.
func (g *Gate) Ingest(ctx types.Context, call feed.CallContext, record feed.RoundRecord) error {
	if call.Caller != g.relayIdentity {
		return errors.Wrapf(types.ErrUnauthorizedCaller, "caller %s", call.Caller)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	processed, err := IsRoundProcessed(g.db, record.RoundID)
	if err != nil {
		return err
	}
	if processed {
		// the relay may legitimately redeliver; stored data stays as
		// the first successful write
		g.signals.Emit(feed.Signal{
			Kind:    feed.SignalDuplicateSkipped,
			RoundID: record.RoundID,
		})
		g.logger.Debug("duplicate round skipped", zap.Uint64("round_id", record.RoundID))
		return nil
	}

	if record.RoundID <= g.latestRoundID {
		return errors.Wrapf(types.ErrStaleRound, "round %d, latest %d", record.RoundID, g.latestRoundID)
	}

	now := types.CurrentUnixTime()
	if now > record.UpdatedAt {
		age := time.Duration(now-record.UpdatedAt) * time.Second
		if age > g.stalenessBound {
			return errors.Wrapf(types.ErrStaleData, "round %d age %s exceeds bound %s", record.RoundID, age, g.stalenessBound)
		}
	}

	stage := g.db.NewStage()
	if err := SaveRoundRecord(stage, record); err != nil {
		return errors.Wrap(err, "failed to save round record")
	}
	if err := MarkRoundProcessed(stage, record.RoundID); err != nil {
		return errors.Wrap(err, "failed to mark round processed")
	}
	if err := SaveLatestRoundID(stage, record.RoundID); err != nil {
		return errors.Wrap(err, "failed to save latest round id")
	}
	if err := stage.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit ingestion")
	}
	g.latestRoundID = record.RoundID

	g.signals.Emit(feed.Signal{
		Kind:      feed.SignalUpdated,
		RoundID:   record.RoundID,
		Answer:    &record.Answer,
		UpdatedAt: record.UpdatedAt,
	})
	g.logger.Info("round ingested",
		zap.Uint64("round_id", record.RoundID),
		zap.String("answer", record.Answer.String()),
		zap.Uint64("updated_at", record.UpdatedAt))
	return nil
}
