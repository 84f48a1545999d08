package oracle

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

func TestSimAggregatorAdvance(t *testing.T) {
	agg := NewSimAggregator("oracle.sim", 8, "BTC / USD")

	_, err := agg.LatestRoundData(context.Background())
	require.ErrorIs(t, err, types.ErrRoundNotFound)

	record := agg.Advance(math.NewInt(200000000000))
	require.Equal(t, uint64(1), record.RoundID)

	latest, err := agg.LatestRoundData(context.Background())
	require.NoError(t, err)
	require.True(t, record.Equal(latest))

	// announcement carries the committed answer and the aggregator identity
	event := <-agg.EventCh()
	update, ok := event.(*feed.PointUpdate)
	require.True(t, ok)
	require.Equal(t, uint64(1), update.RoundID)
	require.Equal(t, feed.Identity("oracle.sim"), update.Source())

	record = agg.Advance(math.NewInt(200000000001))
	require.Equal(t, uint64(2), record.RoundID)
}

func TestSimAggregatorGetRoundData(t *testing.T) {
	agg := NewSimAggregator("oracle.sim", 8, "BTC / USD")
	agg.SetRound(feed.NewRoundRecord(7, math.NewInt(42), 1000, 1001, 7))

	record, err := agg.GetRoundData(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "42", record.Answer.String())

	_, err = agg.GetRoundData(context.Background(), 8)
	require.ErrorIs(t, err, types.ErrRoundNotFound)
}

func TestSimAggregatorMetadata(t *testing.T) {
	agg := NewSimAggregator("oracle.sim", 8, "BTC / USD")

	decimals, err := agg.Decimals(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint8(8), decimals)

	description, err := agg.Description(context.Background())
	require.NoError(t, err)
	require.Equal(t, "BTC / USD", description)

	version, err := agg.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(1), version)
}
