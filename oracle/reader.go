package oracle

import (
	"context"

	"github.com/feedmirror/feedmirror/feed"
)

// Reader is the read surface of the upstream aggregator. The origin gate
// never mutates the upstream feed; it only reads round tuples through
// this interface.
type Reader interface {
	Decimals(ctx context.Context) (uint8, error)
	Description(ctx context.Context) (string, error)
	Version(ctx context.Context) (uint64, error)

	// GetRoundData returns the record for the given round id.
	GetRoundData(ctx context.Context, roundID uint64) (feed.RoundRecord, error)

	// LatestRoundData returns the most recent committed round.
	LatestRoundData(ctx context.Context) (feed.RoundRecord, error)
}
