package destination

import (
	"context"

	"github.com/pkg/errors"

	dbtypes "github.com/feedmirror/feedmirror/db/types"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/oracle"
	"github.com/feedmirror/feedmirror/types"
)

// The mirrored feed serves the same read shape as the upstream
// aggregator, so downstream consumers can switch without changes.
var _ oracle.Reader = &Gate{}

func (g *Gate) Decimals(ctx context.Context) (uint8, error) {
	return g.decimals, nil
}

func (g *Gate) Description(ctx context.Context) (string, error) {
	return g.description, nil
}

func (g *Gate) Version(ctx context.Context) (uint64, error) {
	return g.version, nil
}

func (g *Gate) GetRoundData(ctx context.Context, roundID uint64) (feed.RoundRecord, error) {
	record, err := GetRoundRecord(g.db, roundID)
	if errors.Is(err, dbtypes.ErrNotFound) {
		return feed.RoundRecord{}, errors.Wrapf(types.ErrRoundNotFound, "round %d", roundID)
	} else if err != nil {
		return feed.RoundRecord{}, err
	}
	return record, nil
}

func (g *Gate) LatestRoundData(ctx context.Context) (feed.RoundRecord, error) {
	g.mu.Lock()
	latestRoundID := g.latestRoundID
	g.mu.Unlock()

	if latestRoundID == 0 {
		return feed.RoundRecord{}, errors.Wrap(types.ErrRoundNotFound, "nothing ingested")
	}
	return g.GetRoundData(ctx, latestRoundID)
}
