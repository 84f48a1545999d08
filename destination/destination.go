package destination

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// Gate is the destination-side ingestion gate. It accepts enriched
// round records from the relay only, enforces ordering, staleness and
// idempotency, and serves the mirrored feed through the same read
// shape as the upstream aggregator.
type Gate struct {
	relayIdentity feed.Identity

	decimals    uint8
	description string
	version     uint64

	db     types.DB
	logger *zap.Logger

	stalenessBound time.Duration

	signals *feed.SignalRing

	// one request runs to completion before the next
	mu            sync.Mutex
	latestRoundID uint64
}

func NewGate(
	relayIdentity feed.Identity,
	decimals uint8,
	description string,
	db types.DB,
	logger *zap.Logger,
	stalenessBound time.Duration,
) *Gate {
	if stalenessBound == 0 {
		stalenessBound = types.DefaultStalenessBound
	}

	return &Gate{
		relayIdentity:  relayIdentity,
		decimals:       decimals,
		description:    description,
		version:        1,
		db:             db,
		logger:         logger,
		stalenessBound: stalenessBound,
		signals:        feed.NewSignalRing(types.DestinationGateName, 100),
	}
}

func (g *Gate) Initialize(ctx types.Context) error {
	latestRoundID, err := GetLatestRoundID(g.db)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.latestRoundID = latestRoundID
	g.mu.Unlock()

	g.logger.Info("destination gate initialized", zap.Uint64("latest_round_id", latestRoundID))
	return nil
}

func (g *Gate) LatestRoundID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latestRoundID
}

func (g *Gate) Signals() *feed.SignalRing {
	return g.signals
}
