package feed

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	"golang.org/x/crypto/sha3"
)

// RoundRecord is the atomic unit mirrored end to end: one price
// observation of the upstream aggregator. The round id packs a coarse
// phase in its high bits and a sequence counter in its low bits; this
// system only relies on it being monotonically increasing.
type RoundRecord struct {
	RoundID         uint64   `json:"round_id"`
	Answer          math.Int `json:"answer"`
	StartedAt       uint64   `json:"started_at"`
	UpdatedAt       uint64   `json:"updated_at"`
	AnsweredInRound uint64   `json:"answered_in_round"`
}

func NewRoundRecord(roundID uint64, answer math.Int, startedAt, updatedAt, answeredInRound uint64) RoundRecord {
	return RoundRecord{
		RoundID:         roundID,
		Answer:          answer,
		StartedAt:       startedAt,
		UpdatedAt:       updatedAt,
		AnsweredInRound: answeredInRound,
	}
}

func (r RoundRecord) Marshal() ([]byte, error) {
	return json.Marshal(&r)
}

func (r *RoundRecord) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r RoundRecord) String() string {
	return fmt.Sprintf("RoundRecord{RoundID: %d, Answer: %s, StartedAt: %d, UpdatedAt: %d, AnsweredInRound: %d}",
		r.RoundID, r.Answer, r.StartedAt, r.UpdatedAt, r.AnsweredInRound)
}

func (r RoundRecord) Equal(another RoundRecord) bool {
	return r.RoundID == another.RoundID &&
		r.Answer.Equal(another.Answer) &&
		r.StartedAt == another.StartedAt &&
		r.UpdatedAt == another.UpdatedAt &&
		r.AnsweredInRound == another.AnsweredInRound
}

// Checksum returns the sha3-256 digest of the canonical encoding. It is
// attached to enrichment notifications and verified by the relayer
// before the record is forwarded to the destination.
func (r RoundRecord) Checksum() ([]byte, error) {
	data, err := r.Marshal()
	if err != nil {
		return nil, err
	}
	checksum := sha3.Sum256(data)
	return checksum[:], nil
}
