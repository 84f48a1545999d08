package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

type InstructionKind string

const (
	KindEnrichRound  InstructionKind = "enrich_round"
	KindEnrichLatest InstructionKind = "enrich_latest"
	KindIngest       InstructionKind = "ingest"
)

// Instruction is one outbound unit of work pushed at a gate. It is
// persisted until delivery so undelivered instructions survive a
// restart (at-least-once).
type Instruction struct {
	Target    string            `json:"target"`
	Kind      InstructionKind   `json:"kind"`
	RoundID   uint64            `json:"round_id,omitempty"`
	Record    *feed.RoundRecord `json:"record,omitempty"`
	Budget    uint64            `json:"budget"`
	Timestamp int64             `json:"timestamp"`
	Sequence  uint64            `json:"sequence"`
}

func (i Instruction) Key() []byte {
	return feed.PrefixedInstruction(i.Timestamp, i.Sequence)
}

func (i Instruction) Value() ([]byte, error) {
	return i.Marshal()
}

func (i Instruction) Marshal() ([]byte, error) {
	return json.Marshal(&i)
}

func (i *Instruction) Unmarshal(data []byte) error {
	return json.Unmarshal(data, i)
}

func (i Instruction) String() string {
	return fmt.Sprintf("Instruction{Target: %s, Kind: %s, RoundID: %d, Budget: %d, Sequence: %d}",
		i.Target, i.Kind, i.RoundID, i.Budget, i.Sequence)
}

// Consumer processes a delivered instruction. Errors are logged and
// counted by the delivery loop, never propagated back to the pusher.
type Consumer func(ctx types.Context, instruction Instruction) error
