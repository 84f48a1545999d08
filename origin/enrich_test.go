package origin

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/db"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/oracle"
	"github.com/feedmirror/feedmirror/types"
)

const (
	testOracleID feed.Identity = "oracle.upstream"
	testGateID   feed.Identity = "gate.origin"
	testRelayID  feed.Identity = "relay.feedmirror"
)

func pinUnixTime(t *testing.T, now uint64) {
	original := types.CurrentUnixTime
	types.CurrentUnixTime = func() uint64 { return now }
	t.Cleanup(func() { types.CurrentUnixTime = original })
}

func newTestGate(t *testing.T) (*Gate, *oracle.SimAggregator, chan feed.RelayEvent) {
	database, err := db.NewMemDB()
	require.NoError(t, err)

	agg := oracle.NewSimAggregator(testOracleID, 8, "BTC / USD")
	eventCh := make(chan feed.RelayEvent, 16)
	gate := NewGate(agg, testGateID, testRelayID, database.WithPrefix([]byte(types.OriginGateName)), zap.NewNop(), eventCh, 0)

	ctx := types.NewContext(context.Background(), zap.NewNop(), "")
	require.NoError(t, gate.Initialize(ctx))
	return gate, agg, eventCh
}

func relayCall() feed.CallContext {
	return feed.NewCallContext(testRelayID, testRelayID)
}

func TestEnrichRound(t *testing.T) {
	gate, agg, eventCh := newTestGate(t)
	pinUnixTime(t, 1001)

	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(200000000000), 1000, 1001, 7))

	ctx := types.NewContext(context.Background(), zap.NewNop(), "")
	require.NoError(t, gate.EnrichRound(ctx, relayCall(), 7))
	require.Equal(t, uint64(7), gate.LastProcessedRound())

	event := <-eventCh
	enriched, ok := event.(*feed.EnrichmentComplete)
	require.True(t, ok)
	require.Equal(t, testGateID, enriched.Source())
	require.Equal(t, uint64(7), enriched.Record.RoundID)
	require.Equal(t, "200000000000", enriched.Record.Answer.String())

	checksum, err := enriched.Record.Checksum()
	require.NoError(t, err)
	require.Equal(t, checksum, enriched.Checksum)

	require.Equal(t, 1, gate.Signals().Count(feed.SignalEnriched))
}

func TestEnrichRoundUnauthorized(t *testing.T) {
	gate, agg, _ := newTestGate(t)
	pinUnixTime(t, 1001)

	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(1), 1000, 1001, 7))
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	cases := []struct {
		name string
		call feed.CallContext
	}{
		{"caller mismatch", feed.NewCallContext("mallory", testRelayID)},
		{"originator mismatch", feed.NewCallContext(testRelayID, "mallory")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := gate.EnrichRound(ctx, tc.call, 7)
			require.ErrorIs(t, err, types.ErrUnauthorizedCaller)
		})
	}
	require.Equal(t, uint64(0), gate.LastProcessedRound())
}

func TestEnrichRoundStaleRound(t *testing.T) {
	gate, agg, eventCh := newTestGate(t)
	pinUnixTime(t, 1001)

	agg.SetRound(feed.NewRoundRecord(6, math.NewInt(1), 990, 991, 6))
	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(2), 1000, 1001, 7))

	ctx := types.NewContext(context.Background(), zap.NewNop(), "")
	require.NoError(t, gate.EnrichRound(ctx, relayCall(), 7))
	<-eventCh

	// duplicate
	require.ErrorIs(t, gate.EnrichRound(ctx, relayCall(), 7), types.ErrStaleRound)
	// backwards
	require.ErrorIs(t, gate.EnrichRound(ctx, relayCall(), 6), types.ErrStaleRound)
	require.Equal(t, uint64(7), gate.LastProcessedRound())
}

type faultyReader struct {
	oracle.Reader
	record feed.RoundRecord
	err    error
}

func (r faultyReader) GetRoundData(_ context.Context, _ uint64) (feed.RoundRecord, error) {
	return r.record, r.err
}

func (r faultyReader) LatestRoundData(_ context.Context) (feed.RoundRecord, error) {
	return r.record, r.err
}

func TestEnrichRoundInvalidRoundData(t *testing.T) {
	pinUnixTime(t, 1001)
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	cases := []struct {
		name   string
		reader oracle.Reader
	}{
		{"fetch error", faultyReader{err: errors.New("upstream unavailable")}},
		{"id mismatch", faultyReader{record: feed.NewRoundRecord(6, math.NewInt(1), 1000, 1001, 6)}},
		{"zero updated_at", faultyReader{record: feed.NewRoundRecord(7, math.NewInt(1), 1000, 0, 7)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			database, err := db.NewMemDB()
			require.NoError(t, err)

			gate := NewGate(tc.reader, testGateID, testRelayID, database, zap.NewNop(), make(chan feed.RelayEvent, 1), 0)
			err = gate.EnrichRound(ctx, relayCall(), 7)
			require.ErrorIs(t, err, types.ErrInvalidRoundData)
			require.Equal(t, uint64(0), gate.LastProcessedRound())
		})
	}
}

func TestEnrichRoundStalenessBoundary(t *testing.T) {
	now := uint64(100000)
	bound := uint64(types.DefaultStalenessBound.Seconds())
	pinUnixTime(t, now)
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	// age exactly at the bound is accepted
	gate, agg, eventCh := newTestGate(t)
	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(1), now-bound-1, now-bound, 7))
	require.NoError(t, gate.EnrichRound(ctx, relayCall(), 7))
	<-eventCh

	// one second past the bound is rejected
	gate, agg, _ = newTestGate(t)
	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(1), now-bound-2, now-bound-1, 7))
	require.ErrorIs(t, gate.EnrichRound(ctx, relayCall(), 7), types.ErrStaleData)
	require.Equal(t, uint64(0), gate.LastProcessedRound())
}

func TestEnrichLatest(t *testing.T) {
	gate, agg, eventCh := newTestGate(t)
	pinUnixTime(t, 1001)
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	agg.SetRound(feed.NewRoundRecord(9, math.NewInt(42), 1000, 1001, 9))

	relayed, err := gate.EnrichLatest(ctx, relayCall())
	require.NoError(t, err)
	require.True(t, relayed)
	require.Equal(t, uint64(9), gate.LastProcessedRound())

	event := <-eventCh
	require.Equal(t, uint64(9), event.Id().RoundID)

	// nothing new: silent no-op, not an error
	relayed, err = gate.EnrichLatest(ctx, relayCall())
	require.NoError(t, err)
	require.False(t, relayed)
	require.Equal(t, uint64(9), gate.LastProcessedRound())
}

func TestEnrichLatestEmptyOracle(t *testing.T) {
	gate, _, _ := newTestGate(t)
	pinUnixTime(t, 1001)
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	_, err := gate.EnrichLatest(ctx, relayCall())
	require.ErrorIs(t, err, types.ErrInvalidRoundData)
}

func TestEnrichLatestUnauthorized(t *testing.T) {
	gate, _, _ := newTestGate(t)
	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	_, err := gate.EnrichLatest(ctx, feed.NewCallContext("mallory", "mallory"))
	require.ErrorIs(t, err, types.ErrUnauthorizedCaller)
}

func TestGateCursorRestart(t *testing.T) {
	database, err := db.NewMemDB()
	require.NoError(t, err)
	pinUnixTime(t, 1001)

	agg := oracle.NewSimAggregator(testOracleID, 8, "BTC / USD")
	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(1), 1000, 1001, 7))

	ctx := types.NewContext(context.Background(), zap.NewNop(), "")

	gate := NewGate(agg, testGateID, testRelayID, database, zap.NewNop(), make(chan feed.RelayEvent, 1), 0)
	require.NoError(t, gate.Initialize(ctx))
	require.NoError(t, gate.EnrichRound(ctx, relayCall(), 7))

	restarted := NewGate(agg, testGateID, testRelayID, database, zap.NewNop(), make(chan feed.RelayEvent, 1), 0)
	require.NoError(t, restarted.Initialize(ctx))
	require.Equal(t, uint64(7), restarted.LastProcessedRound())
}
