package origin

import (
	"time"
)

type Status struct {
	LastProcessedRound uint64    `json:"last_processed_round"`
	LastEnrichedTime   time.Time `json:"last_enriched_time,omitempty"`
}

func (g *Gate) GetStatus() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Status{
		LastProcessedRound: g.lastProcessedRound,
		LastEnrichedTime:   g.lastEnrichedTime,
	}
}
