package relayer

import (
	"github.com/pkg/errors"

	dbtypes "github.com/feedmirror/feedmirror/db/types"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// SaveLastProcessedRound saves the relay cursor
func SaveLastProcessedRound(db types.BasicDB, roundID uint64) error {
	return db.Set(feed.LastProcessedRoundKey, dbtypes.FromUint64(roundID))
}

// GetLastProcessedRound loads the relay cursor; zero if never set
func GetLastProcessedRound(db types.BasicDB) (uint64, error) {
	data, err := db.Get(feed.LastProcessedRoundKey)
	if errors.Is(err, dbtypes.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return dbtypes.ToUint64(data)
}

// SavePendingRound saves a pending round
func SavePendingRound(db types.BasicDB, pendingRound PendingRound) error {
	data, err := pendingRound.Marshal()
	if err != nil {
		return err
	}
	return db.Set(pendingRound.Key(), data)
}

// DeletePendingRound deletes a pending round
func DeletePendingRound(db types.BasicDB, roundID uint64) error {
	return db.Delete(feed.PrefixedPendingRound(roundID))
}

// LoadPendingRounds loads all pending rounds
func LoadPendingRounds(db types.DB) (pendingRounds []PendingRound, err error) {
	iterErr := db.Iterate(dbtypes.AppendSplitter(feed.PendingRoundKey), nil, func(key, value []byte) (stop bool, err error) {
		roundID, err := feed.ParsePendingRound(key)
		if err != nil {
			return true, err
		}
		pendingRound := PendingRound{}
		err = pendingRound.Unmarshal(value)
		if err != nil {
			return true, err
		}
		if pendingRound.RoundID != roundID {
			return true, errors.Errorf("pending round key %d does not match stored round %d", roundID, pendingRound.RoundID)
		}
		pendingRounds = append(pendingRounds, pendingRound)
		return false, nil
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return pendingRounds, nil
}
