package feed

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestRoundRecordCodec(t *testing.T) {
	record := NewRoundRecord(7, math.NewInt(200000000000), 1000, 1001, 7)

	data, err := record.Marshal()
	require.NoError(t, err)

	decoded := RoundRecord{}
	require.NoError(t, decoded.Unmarshal(data))
	require.True(t, record.Equal(decoded))
}

func TestRoundRecordNegativeAnswer(t *testing.T) {
	record := NewRoundRecord(3, math.NewInt(-42), 10, 11, 3)

	data, err := record.Marshal()
	require.NoError(t, err)

	decoded := RoundRecord{}
	require.NoError(t, decoded.Unmarshal(data))
	require.Equal(t, "-42", decoded.Answer.String())
}

func TestRoundRecordChecksum(t *testing.T) {
	record := NewRoundRecord(7, math.NewInt(200000000000), 1000, 1001, 7)

	checksum, err := record.Checksum()
	require.NoError(t, err)
	require.Len(t, checksum, 32)

	// same content, same digest
	same := NewRoundRecord(7, math.NewInt(200000000000), 1000, 1001, 7)
	sameChecksum, err := same.Checksum()
	require.NoError(t, err)
	require.Equal(t, checksum, sameChecksum)

	// any field change flips the digest
	tampered := record
	tampered.Answer = math.NewInt(200000000001)
	tamperedChecksum, err := tampered.Checksum()
	require.NoError(t, err)
	require.NotEqual(t, checksum, tamperedChecksum)
}

func TestCallContextIsRelay(t *testing.T) {
	relay := Identity("relay.feedmirror")

	cases := []struct {
		name     string
		call     CallContext
		expected bool
	}{
		{
			name:     "both match",
			call:     NewCallContext(relay, relay),
			expected: true,
		},
		{
			name:     "caller mismatch",
			call:     NewCallContext("mallory", relay),
			expected: false,
		},
		{
			name:     "originator mismatch",
			call:     NewCallContext(relay, "mallory"),
			expected: false,
		},
		{
			name:     "both mismatch",
			call:     NewCallContext("mallory", "mallory"),
			expected: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.call.IsRelay(relay))
		})
	}
}
