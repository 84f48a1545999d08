package feed

import (
	"github.com/pkg/errors"

	dbtypes "github.com/feedmirror/feedmirror/db/types"
)

var (
	// Keys
	LastProcessedRoundKey = []byte("last_processed_round")
	RoundKey              = []byte("round")
	ProcessedRoundKey     = []byte("processed_round")
	PendingRoundKey       = []byte("pending_round")
	InstructionKey        = []byte("instruction")
)

func PrefixedRound(roundID uint64) []byte {
	return append(append(RoundKey, dbtypes.Splitter), dbtypes.FromUint64Key(roundID)...)
}

func PrefixedProcessedRound(roundID uint64) []byte {
	return append(append(ProcessedRoundKey, dbtypes.Splitter), dbtypes.FromUint64Key(roundID)...)
}

func PrefixedPendingRound(roundID uint64) []byte {
	return append(append(PendingRoundKey, dbtypes.Splitter), dbtypes.FromUint64Key(roundID)...)
}

func PrefixedInstruction(timestamp int64, sequence uint64) []byte {
	return append(append(append(InstructionKey, dbtypes.Splitter),
		dbtypes.FromUint64Key(uint64(timestamp))...), dbtypes.FromUint64Key(sequence)...)
}

func ParsePendingRound(key []byte) (uint64, error) {
	if len(key) < 8 {
		return 0, errors.New("invalid pending round key bytes")
	}
	return dbtypes.ToUint64Key(key[len(key)-8:]), nil
}
