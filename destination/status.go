package destination

type Status struct {
	LatestRoundID uint64 `json:"latest_round_id"`
	Decimals      uint8  `json:"decimals"`
	Description   string `json:"description"`
	Version       uint64 `json:"version"`
}

func (g *Gate) GetStatus() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Status{
		LatestRoundID: g.latestRoundID,
		Decimals:      g.decimals,
		Description:   g.description,
		Version:       g.version,
	}
}
