package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignalRing(t *testing.T) {
	ring := NewSignalRing("relayer", 3)

	ring.Emit(Signal{Kind: SignalProcessingStarted, RoundID: 1})
	ring.Emit(Signal{Kind: SignalDuplicateSkipped, RoundID: 1})
	ring.Emit(Signal{Kind: SignalMirrored, RoundID: 1})

	recent := ring.Recent(10)
	require.Len(t, recent, 3)
	require.Equal(t, SignalMirrored, recent[0].Kind)
	require.Equal(t, "relayer", recent[0].Component)

	// overwrites the oldest entry once full
	ring.Emit(Signal{Kind: SignalMirrored, RoundID: 2})
	recent = ring.Recent(10)
	require.Len(t, recent, 3)
	require.Equal(t, uint64(2), recent[0].RoundID)
	require.Equal(t, 0, ring.Count(SignalProcessingStarted))
	require.Equal(t, 2, ring.Count(SignalMirrored))
}
