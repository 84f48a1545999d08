package destination

import (
	"github.com/pkg/errors"

	dbtypes "github.com/feedmirror/feedmirror/db/types"
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// SaveLatestRoundID saves the ingestion watermark
func SaveLatestRoundID(db types.BasicDB, roundID uint64) error {
	return db.Set(feed.LastProcessedRoundKey, dbtypes.FromUint64(roundID))
}

// GetLatestRoundID loads the ingestion watermark; zero if never set
func GetLatestRoundID(db types.BasicDB) (uint64, error) {
	data, err := db.Get(feed.LastProcessedRoundKey)
	if errors.Is(err, dbtypes.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return dbtypes.ToUint64(data)
}

// SaveRoundRecord saves an ingested record
func SaveRoundRecord(db types.BasicDB, record feed.RoundRecord) error {
	data, err := record.Marshal()
	if err != nil {
		return err
	}
	return db.Set(feed.PrefixedRound(record.RoundID), data)
}

// GetRoundRecord loads an ingested record
func GetRoundRecord(db types.BasicDB, roundID uint64) (feed.RoundRecord, error) {
	data, err := db.Get(feed.PrefixedRound(roundID))
	if err != nil {
		return feed.RoundRecord{}, err
	}

	record := feed.RoundRecord{}
	if err := record.Unmarshal(data); err != nil {
		return feed.RoundRecord{}, err
	}
	return record, nil
}

// MarkRoundProcessed records processed-round membership
func MarkRoundProcessed(db types.BasicDB, roundID uint64) error {
	return db.Set(feed.PrefixedProcessedRound(roundID), []byte{1})
}

// IsRoundProcessed reports processed-round membership
func IsRoundProcessed(db types.BasicDB, roundID uint64) (bool, error) {
	_, err := db.Get(feed.PrefixedProcessedRound(roundID))
	if errors.Is(err, dbtypes.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}
