package origin

import (
	"github.com/pkg/errors"

	dbtypes "github.com/feedmirror/feedmirror/db/types"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// SaveLastProcessedRound saves the enrichment cursor
func SaveLastProcessedRound(db types.BasicDB, roundID uint64) error {
	return db.Set(feed.LastProcessedRoundKey, dbtypes.FromUint64(roundID))
}

// GetLastProcessedRound loads the enrichment cursor; zero if never set
func GetLastProcessedRound(db types.BasicDB) (uint64, error) {
	data, err := db.Get(feed.LastProcessedRoundKey)
	if errors.Is(err, dbtypes.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return dbtypes.ToUint64(data)
}
