package relayer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/feedmirror/feedmirror/feed"
)

// PendingRound tracks a round whose point update was observed but whose
// enriched record has not yet arrived. At most one entry per round id.
type PendingRound struct {
	RoundID    uint64    `json:"round_id"`
	ObservedAt time.Time `json:"observed_at"`
	IsPending  bool      `json:"is_pending"`
}

func NewPendingRound(roundID uint64, observedAt time.Time) PendingRound {
	return PendingRound{
		RoundID:    roundID,
		ObservedAt: observedAt,
		IsPending:  true,
	}
}

func (p PendingRound) Key() []byte {
	return feed.PrefixedPendingRound(p.RoundID)
}

func (p PendingRound) Marshal() ([]byte, error) {
	return json.Marshal(&p)
}

func (p *PendingRound) Unmarshal(data []byte) error {
	return json.Unmarshal(data, p)
}

func (p PendingRound) String() string {
	return fmt.Sprintf("PendingRound{RoundID: %d, ObservedAt: %s}", p.RoundID, p.ObservedAt)
}
