package outbox

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/db"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

func TestOutboxDelivery(t *testing.T) {
	database, err := db.NewMemDB()
	require.NoError(t, err)

	outbox := New("origin_gate", types.DefaultEnrichBudget, database, zap.NewNop())
	require.NoError(t, outbox.Initialize())

	delivered := make(chan Instruction, 8)
	outbox.RegisterConsumer(func(_ types.Context, instruction Instruction) error {
		delivered <- instruction
		return nil
	})

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx := types.NewContext(baseCtx, zap.NewNop(), "")

	done := make(chan error, 1)
	go func() {
		done <- outbox.Start(ctx)
	}()

	require.NoError(t, outbox.Push(KindEnrichLatest, 0, nil))
	record := feed.NewRoundRecord(7, math.NewInt(42), 1000, 1001, 7)
	require.NoError(t, outbox.Push(KindIngest, 7, &record))

	first := <-delivered
	require.Equal(t, KindEnrichLatest, first.Kind)
	require.Equal(t, types.DefaultEnrichBudget, first.Budget)

	second := <-delivered
	require.Equal(t, KindIngest, second.Kind)
	require.Equal(t, uint64(7), second.RoundID)
	require.NotNil(t, second.Record)
	require.True(t, record.Equal(*second.Record))

	require.True(t, outbox.WaitForDelivery(time.Second))

	// delivered instructions are removed from the store
	instructions, err := LoadInstructions(database)
	require.NoError(t, err)
	require.Empty(t, instructions)

	cancel()
	require.NoError(t, <-done)
}

func TestOutboxConsumerErrorNotPropagated(t *testing.T) {
	database, err := db.NewMemDB()
	require.NoError(t, err)

	outbox := New("destination_gate", types.DefaultIngestBudget, database, zap.NewNop())
	require.NoError(t, outbox.Initialize())

	outbox.RegisterConsumer(func(_ types.Context, _ Instruction) error {
		return errors.New("processing failed")
	})

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx := types.NewContext(baseCtx, zap.NewNop(), "")

	done := make(chan error, 1)
	go func() {
		done <- outbox.Start(ctx)
	}()

	require.NoError(t, outbox.Push(KindIngest, 7, nil))
	require.True(t, outbox.WaitForDelivery(time.Second))

	status := outbox.GetStatus()
	require.Equal(t, uint64(0), status.Delivered)
	require.Equal(t, uint64(1), status.Failed)

	cancel()
	require.NoError(t, <-done)
}

func TestOutboxRedeliveryOnRestart(t *testing.T) {
	database, err := db.NewMemDB()
	require.NoError(t, err)

	outbox := New("destination_gate", types.DefaultIngestBudget, database, zap.NewNop())
	require.NoError(t, outbox.Initialize())

	// pushed but never delivered: no Start call
	require.NoError(t, outbox.Push(KindIngest, 7, nil))
	require.NoError(t, outbox.Push(KindIngest, 8, nil))

	// "restart" over the same store
	restarted := New("destination_gate", types.DefaultIngestBudget, database, zap.NewNop())
	require.NoError(t, restarted.Initialize())

	delivered := make(chan Instruction, 8)
	restarted.RegisterConsumer(func(_ types.Context, instruction Instruction) error {
		delivered <- instruction
		return nil
	})

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx := types.NewContext(baseCtx, zap.NewNop(), "")

	done := make(chan error, 1)
	go func() {
		done <- restarted.Start(ctx)
	}()

	require.Equal(t, uint64(7), (<-delivered).RoundID)
	require.Equal(t, uint64(8), (<-delivered).RoundID)

	// new pushes keep the sequence monotonic across the restart
	require.NoError(t, restarted.Push(KindIngest, 9, nil))
	next := <-delivered
	require.Equal(t, uint64(9), next.RoundID)
	require.Equal(t, uint64(2), next.Sequence)

	cancel()
	require.NoError(t, <-done)
}
