package relayer

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/db"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/outbox"
	"github.com/feedmirror/feedmirror/types"
)

const (
	testOracleID feed.Identity = "oracle.upstream"
	testGateID   feed.Identity = "gate.origin"
)

type testEnv struct {
	relayer        *Relayer
	originBox      types.DB
	destinationBox types.DB
	ctx            types.Context
}

func newTestEnv(t *testing.T) *testEnv {
	database, err := db.NewMemDB()
	require.NoError(t, err)
	return newTestEnvWithDB(t, database)
}

func newTestEnvWithDB(t *testing.T, database types.DB) *testEnv {
	originBoxDB := database.WithPrefix([]byte("origin_outbox"))
	destinationBoxDB := database.WithPrefix([]byte("destination_outbox"))

	originOutbox := outbox.New(types.OriginGateName, types.DefaultEnrichBudget, originBoxDB, zap.NewNop())
	require.NoError(t, originOutbox.Initialize())
	destinationOutbox := outbox.New(types.DestinationGateName, types.DefaultIngestBudget, destinationBoxDB, zap.NewNop())
	require.NoError(t, destinationOutbox.Initialize())

	relayer := NewRelayer(testOracleID, testGateID, database.WithPrefix([]byte(types.RelayerName)), zap.NewNop(), originOutbox, destinationOutbox)
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")
	require.NoError(t, relayer.Initialize(ctx))

	return &testEnv{
		relayer:        relayer,
		originBox:      originBoxDB,
		destinationBox: destinationBoxDB,
		ctx:            ctx,
	}
}

func enrichmentFor(t *testing.T, record feed.RoundRecord) *feed.EnrichmentComplete {
	checksum, err := record.Checksum()
	require.NoError(t, err)
	return feed.NewEnrichmentComplete(record, checksum, testGateID, time.Now().UTC())
}

func TestPendingLifecycle(t *testing.T) {
	env := newTestEnv(t)

	update := feed.NewPointUpdate(7, math.NewInt(200000000000), testOracleID, time.Now().UTC())
	require.NoError(t, env.relayer.HandleEvent(env.ctx, update))

	require.True(t, env.relayer.IsPending(7))
	require.Equal(t, uint64(0), env.relayer.LastProcessedRound())
	require.Equal(t, 1, env.relayer.Signals().Count(feed.SignalProcessingStarted))

	instructions, err := outbox.LoadInstructions(env.originBox)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	require.Equal(t, outbox.KindEnrichRound, instructions[0].Kind)
	require.Equal(t, uint64(7), instructions[0].RoundID)
	require.Equal(t, types.DefaultEnrichBudget, instructions[0].Budget)

	record := feed.NewRoundRecord(7, math.NewInt(200000000000), 1000, 1001, 7)
	require.NoError(t, env.relayer.HandleEvent(env.ctx, enrichmentFor(t, record)))

	require.False(t, env.relayer.IsPending(7))
	require.Equal(t, uint64(7), env.relayer.LastProcessedRound())
	require.Equal(t, 1, env.relayer.Signals().Count(feed.SignalMirrored))

	instructions, err = outbox.LoadInstructions(env.destinationBox)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	require.Equal(t, outbox.KindIngest, instructions[0].Kind)
	require.NotNil(t, instructions[0].Record)
	require.True(t, record.Equal(*instructions[0].Record))
	require.Equal(t, types.DefaultIngestBudget, instructions[0].Budget)
}

func TestPointUpdateDedup(t *testing.T) {
	env := newTestEnv(t)

	update := feed.NewPointUpdate(7, math.NewInt(1), testOracleID, time.Now().UTC())
	require.NoError(t, env.relayer.HandleEvent(env.ctx, update))

	// already pending
	require.NoError(t, env.relayer.HandleEvent(env.ctx, update))
	require.Equal(t, 1, env.relayer.Signals().Count(feed.SignalDuplicateSkipped))

	record := feed.NewRoundRecord(7, math.NewInt(1), 1000, 1001, 7)
	require.NoError(t, env.relayer.HandleEvent(env.ctx, enrichmentFor(t, record)))

	// at the cursor
	require.NoError(t, env.relayer.HandleEvent(env.ctx, update))
	// backwards
	backwards := feed.NewPointUpdate(3, math.NewInt(1), testOracleID, time.Now().UTC())
	require.NoError(t, env.relayer.HandleEvent(env.ctx, backwards))

	require.Equal(t, 3, env.relayer.Signals().Count(feed.SignalDuplicateSkipped))
	require.False(t, env.relayer.IsPending(3))

	// only the first update produced an instruction
	instructions, err := outbox.LoadInstructions(env.originBox)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
}

func TestUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	update := feed.NewPointUpdate(7, math.NewInt(1), "mallory", time.Now().UTC())
	require.ErrorIs(t, env.relayer.HandleEvent(env.ctx, update), types.ErrUnknownEvent)

	record := feed.NewRoundRecord(7, math.NewInt(1), 1000, 1001, 7)
	checksum, err := record.Checksum()
	require.NoError(t, err)
	enrichment := feed.NewEnrichmentComplete(record, checksum, "mallory", time.Now().UTC())
	require.ErrorIs(t, env.relayer.HandleEvent(env.ctx, enrichment), types.ErrUnknownEvent)

	// no state was touched
	require.False(t, env.relayer.IsPending(7))
	require.Equal(t, uint64(0), env.relayer.LastProcessedRound())
}

func TestEnrichmentChecksumMismatch(t *testing.T) {
	env := newTestEnv(t)

	update := feed.NewPointUpdate(7, math.NewInt(1), testOracleID, time.Now().UTC())
	require.NoError(t, env.relayer.HandleEvent(env.ctx, update))

	record := feed.NewRoundRecord(7, math.NewInt(1), 1000, 1001, 7)
	enrichment := feed.NewEnrichmentComplete(record, []byte("bogus"), testGateID, time.Now().UTC())
	require.ErrorIs(t, env.relayer.HandleEvent(env.ctx, enrichment), types.ErrInvalidRoundData)

	// pending is cleared defensively, but the cursor does not move and
	// nothing is forwarded
	require.False(t, env.relayer.IsPending(7))
	require.Equal(t, uint64(0), env.relayer.LastProcessedRound())

	instructions, err := outbox.LoadInstructions(env.destinationBox)
	require.NoError(t, err)
	require.Empty(t, instructions)
}

func TestEnrichmentWithoutPending(t *testing.T) {
	env := newTestEnv(t)

	// heartbeat-path enrichment: the round never went through pending
	record := feed.NewRoundRecord(9, math.NewInt(42), 1000, 1001, 9)
	require.NoError(t, env.relayer.HandleEvent(env.ctx, enrichmentFor(t, record)))

	require.Equal(t, uint64(9), env.relayer.LastProcessedRound())

	instructions, err := outbox.LoadInstructions(env.destinationBox)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	require.Equal(t, uint64(9), instructions[0].RoundID)
}

func TestHeartbeat(t *testing.T) {
	env := newTestEnv(t)

	// pending state is neither consulted nor mutated
	update := feed.NewPointUpdate(7, math.NewInt(1), testOracleID, time.Now().UTC())
	require.NoError(t, env.relayer.HandleEvent(env.ctx, update))

	require.NoError(t, env.relayer.HandleEvent(env.ctx, feed.NewHeartbeat(time.Now().UTC())))
	require.Equal(t, 1, env.relayer.Signals().Count(feed.SignalFallbackTriggered))
	require.True(t, env.relayer.IsPending(7))

	instructions, err := outbox.LoadInstructions(env.originBox)
	require.NoError(t, err)
	require.Len(t, instructions, 2)
	require.Equal(t, outbox.KindEnrichLatest, instructions[1].Kind)
}

func TestRelayerRestart(t *testing.T) {
	database, err := db.NewMemDB()
	require.NoError(t, err)

	env := newTestEnvWithDB(t, database)

	require.NoError(t, env.relayer.HandleEvent(env.ctx, feed.NewPointUpdate(8, math.NewInt(1), testOracleID, time.Now().UTC())))
	record := feed.NewRoundRecord(7, math.NewInt(1), 1000, 1001, 7)
	require.NoError(t, env.relayer.HandleEvent(env.ctx, enrichmentFor(t, record)))

	restarted := newTestEnvWithDB(t, database)
	require.Equal(t, uint64(7), restarted.relayer.LastProcessedRound())
	require.True(t, restarted.relayer.IsPending(8))
	require.Len(t, restarted.relayer.PendingRounds(), 1)
}
