package mirror

import (
	"time"

	"cosmossdk.io/math"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	bottypes "github.com/feedmirror/feedmirror/bot/types"
	"github.com/feedmirror/feedmirror/destination"
	"github.com/feedmirror/feedmirror/feed"
	mirrortypes "github.com/feedmirror/feedmirror/mirror/types"
	"github.com/feedmirror/feedmirror/oracle"
	"github.com/feedmirror/feedmirror/origin"
	"github.com/feedmirror/feedmirror/outbox"
	"github.com/feedmirror/feedmirror/relayer"
	"github.com/feedmirror/feedmirror/sentry_integration"
	"github.com/feedmirror/feedmirror/server"
	"github.com/feedmirror/feedmirror/server/metrics"
	"github.com/feedmirror/feedmirror/types"
)

var _ bottypes.Bot = &Mirror{}

// Mirror wires the three components of the feed relay together:
// - the origin gate enriches rounds out of the upstream aggregator
// - the relayer classifies events and issues budgeted instructions
// - the destination gate serves the mirrored feed
// The hops between them run through persisted outboxes and the event
// channel, never as synchronous calls.
type Mirror struct {
	origin      *origin.Gate
	relayer     *relayer.Relayer
	destination *destination.Gate

	aggregator *oracle.SimAggregator

	originOutbox      *outbox.Outbox
	destinationOutbox *outbox.Outbox

	cfg    *mirrortypes.Config
	db     types.DB
	server *server.Server
	logger *zap.Logger
}

func NewMirror(cfg *mirrortypes.Config, db types.DB, sv *server.Server, logger *zap.Logger) *Mirror {
	err := cfg.Validate()
	if err != nil {
		panic(err)
	}

	aggregator := oracle.NewSimAggregator(
		feed.Identity(cfg.OracleIdentity),
		cfg.Decimals,
		cfg.Description,
	)

	originOutbox := outbox.New(
		types.OriginGateName, cfg.EnrichBudget,
		db.WithPrefix([]byte(types.OriginOutboxName)),
		logger.Named(types.OriginOutboxName),
	)
	destinationOutbox := outbox.New(
		types.DestinationGateName, cfg.IngestBudget,
		db.WithPrefix([]byte(types.DestinationOutboxName)),
		logger.Named(types.DestinationOutboxName),
	)

	r := relayer.NewRelayer(
		feed.Identity(cfg.OracleIdentity),
		feed.Identity(cfg.OriginGateIdentity),
		db.WithPrefix([]byte(types.RelayerName)),
		logger.Named(types.RelayerName),
		originOutbox, destinationOutbox,
	)

	m := &Mirror{
		origin: origin.NewGate(
			aggregator,
			feed.Identity(cfg.OriginGateIdentity),
			feed.Identity(cfg.RelayIdentity),
			db.WithPrefix([]byte(types.OriginGateName)),
			logger.Named(types.OriginGateName),
			r.EventCh(),
			cfg.StalenessBoundDuration(),
		),
		relayer: r,
		destination: destination.NewGate(
			feed.Identity(cfg.RelayIdentity),
			cfg.Decimals,
			cfg.Description,
			db.WithPrefix([]byte(types.DestinationGateName)),
			logger.Named(types.DestinationGateName),
			cfg.StalenessBoundDuration(),
		),

		aggregator: aggregator,

		originOutbox:      originOutbox,
		destinationOutbox: destinationOutbox,

		cfg:    cfg,
		db:     db,
		server: sv,
		logger: logger,
	}

	originOutbox.RegisterConsumer(m.consumeOriginInstruction)
	destinationOutbox.RegisterConsumer(m.consumeDestinationInstruction)
	return m
}

func (m *Mirror) Initialize(ctx types.Context) error {
	if err := m.origin.Initialize(ctx); err != nil {
		return err
	}
	if err := m.relayer.Initialize(ctx); err != nil {
		return err
	}
	if err := m.destination.Initialize(ctx); err != nil {
		return err
	}
	if err := m.originOutbox.Initialize(); err != nil {
		return err
	}
	if err := m.destinationOutbox.Initialize(); err != nil {
		return err
	}
	m.RegisterQuerier()
	return nil
}

func (m *Mirror) Start(ctx types.Context) error {
	defer m.Close()

	ctx = ctx.WithHeartbeatInterval(m.cfg.HeartbeatIntervalDuration())

	errGrp := ctx.ErrGrp()
	errGrp.Go(func() (err error) {
		<-ctx.Done()
		return m.server.Shutdown()
	})

	errGrp.Go(func() (err error) {
		defer func() {
			m.logger.Info("api server stopped")
		}()
		return m.server.Start()
	})

	errGrp.Go(func() (err error) {
		defer func() {
			m.logger.Info("relayer stopped")
		}()
		return m.relayer.Start(ctx)
	})

	errGrp.Go(func() (err error) {
		defer func() {
			m.logger.Info("origin outbox stopped")
		}()
		return m.originOutbox.Start(ctx)
	})

	errGrp.Go(func() (err error) {
		defer func() {
			m.logger.Info("destination outbox stopped")
		}()
		return m.destinationOutbox.Start(ctx)
	})

	errGrp.Go(func() (err error) {
		return m.forwardOracleEvents(ctx)
	})

	errGrp.Go(func() (err error) {
		return metrics.StartMetricsUpdater(ctx, m)
	})

	if m.cfg.Sim {
		errGrp.Go(func() (err error) {
			return m.runSim(ctx)
		})
	}

	return errGrp.Wait()
}

func (m *Mirror) Close() {
	m.db.Close()
}

// forwardOracleEvents bridges the aggregator's announcements into the
// relayer's inbound channel.
func (m *Mirror) forwardOracleEvents(ctx types.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-m.aggregator.EventCh():
			select {
			case <-ctx.Done():
				return nil
			case m.relayer.EventCh() <- event:
			}
		}
	}
}

// consumeOriginInstruction executes relay instructions addressed to the
// origin gate. The call context carries the relay identity on both
// layers.
func (m *Mirror) consumeOriginInstruction(ctx types.Context, instruction outbox.Instruction) error {
	call := feed.NewCallContext(feed.Identity(m.cfg.RelayIdentity), feed.Identity(m.cfg.RelayIdentity))

	switch instruction.Kind {
	case outbox.KindEnrichRound:
		err := m.origin.EnrichRound(ctx, call, instruction.RoundID)
		if err != nil {
			sentry_integration.CaptureCurrentHubException(err, sentry.LevelWarning)
			return err
		}
		return nil
	case outbox.KindEnrichLatest:
		relayed, err := m.origin.EnrichLatest(ctx, call)
		if err != nil {
			sentry_integration.CaptureCurrentHubException(err, sentry.LevelWarning)
			return err
		}
		if !relayed {
			m.logger.Debug("nothing new to enrich")
		}
		return nil
	default:
		return errors.Errorf("unexpected instruction kind for origin gate: %s", instruction.Kind)
	}
}

// consumeDestinationInstruction executes relay instructions addressed
// to the destination gate.
func (m *Mirror) consumeDestinationInstruction(ctx types.Context, instruction outbox.Instruction) error {
	call := feed.NewCallContext(feed.Identity(m.cfg.RelayIdentity), feed.Identity(m.cfg.RelayIdentity))

	switch instruction.Kind {
	case outbox.KindIngest:
		if instruction.Record == nil {
			return errors.Wrap(types.ErrInvalidRoundData, "ingest instruction without record")
		}
		err := m.destination.Ingest(ctx, call, *instruction.Record)
		if err != nil {
			sentry_integration.CaptureCurrentHubException(err, sentry.LevelWarning)
			return err
		}
		return nil
	default:
		return errors.Errorf("unexpected instruction kind for destination gate: %s", instruction.Kind)
	}
}

// runSim advances the simulated aggregator on a fixed cadence with a
// small random walk around the starting price.
func (m *Mirror) runSim(ctx types.Context) error {
	answer := math.NewInt(200_000_000_000)
	step := math.NewInt(50_000_000)

	ticker := time.NewTicker(time.Duration(m.cfg.SimInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case tick := <-ticker.C:
			if tick.Unix()%2 == 0 {
				answer = answer.Add(step)
			} else {
				answer = answer.Sub(step)
			}
			record := m.aggregator.Advance(answer)
			m.logger.Debug("sim round committed",
				zap.Uint64("round_id", record.RoundID),
				zap.String("answer", record.Answer.String()))
		}
	}
}
