package relayer

import (
	"sort"

	"github.com/feedmirror/feedmirror/outbox"
)

type Status struct {
	LastProcessedRound uint64        `json:"last_processed_round"`
	PendingRounds      []uint64      `json:"pending_rounds"`
	OriginOutbox       outbox.Status `json:"origin_outbox"`
	DestinationOutbox  outbox.Status `json:"destination_outbox"`
}

func (r *Relayer) GetStatus() Status {
	r.mu.Lock()
	pendingRounds := make([]uint64, 0, len(r.pendingRounds))
	for roundID := range r.pendingRounds {
		pendingRounds = append(pendingRounds, roundID)
	}
	lastProcessedRound := r.lastProcessedRound
	r.mu.Unlock()

	sort.Slice(pendingRounds, func(i, j int) bool { return pendingRounds[i] < pendingRounds[j] })

	return Status{
		LastProcessedRound: lastProcessedRound,
		PendingRounds:      pendingRounds,
		OriginOutbox:       r.originOutbox.GetStatus(),
		DestinationOutbox:  r.destinationOutbox.GetStatus(),
	}
}
