package origin

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/oracle"
	"github.com/feedmirror/feedmirror/types"
)

// Gate is the origin-side enrichment gate. On request it reads a full
// round record from the upstream oracle, validates it, and publishes it
// as an enrichment notification. Only the configured relay identity may
// drive it, checked on both layers of the call context.
type Gate struct {
	reader oracle.Reader

	identity      feed.Identity
	relayIdentity feed.Identity

	db     types.DB
	logger *zap.Logger

	stalenessBound time.Duration

	eventCh chan<- feed.RelayEvent
	signals *feed.SignalRing

	// one request runs to completion before the next
	mu                 sync.Mutex
	lastProcessedRound uint64
	lastEnrichedTime   time.Time
}

func NewGate(
	reader oracle.Reader,
	identity feed.Identity,
	relayIdentity feed.Identity,
	db types.DB,
	logger *zap.Logger,
	eventCh chan<- feed.RelayEvent,
	stalenessBound time.Duration,
) *Gate {
	if stalenessBound == 0 {
		stalenessBound = types.DefaultStalenessBound
	}

	return &Gate{
		reader:         reader,
		identity:       identity,
		relayIdentity:  relayIdentity,
		db:             db,
		logger:         logger,
		stalenessBound: stalenessBound,
		eventCh:        eventCh,
		signals:        feed.NewSignalRing(types.OriginGateName, 100),
	}
}

func (g *Gate) Initialize(ctx types.Context) error {
	lastProcessedRound, err := GetLastProcessedRound(g.db)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.lastProcessedRound = lastProcessedRound
	g.mu.Unlock()

	g.logger.Info("origin gate initialized", zap.Uint64("last_processed_round", lastProcessedRound))
	return nil
}

// Identity returns the identity the gate announces notifications under.
func (g *Gate) Identity() feed.Identity {
	return g.identity
}

func (g *Gate) LastProcessedRound() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastProcessedRound
}

func (g *Gate) Signals() *feed.SignalRing {
	return g.signals
}
