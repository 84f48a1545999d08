package oracle

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

var _ Reader = &SimAggregator{}

// SimAggregator is an in-memory aggregator used by the sim mode and the
// end-to-end tests. Rounds committed through Advance or SetRound are
// announced as PointUpdate events on the event channel.
type SimAggregator struct {
	mu sync.RWMutex

	identity    feed.Identity
	decimals    uint8
	description string
	version     uint64

	rounds   map[uint64]feed.RoundRecord
	latestID uint64

	eventCh chan feed.RelayEvent
}

func NewSimAggregator(identity feed.Identity, decimals uint8, description string) *SimAggregator {
	return &SimAggregator{
		identity:    identity,
		decimals:    decimals,
		description: description,
		version:     1,
		rounds:      make(map[uint64]feed.RoundRecord),
		eventCh:     make(chan feed.RelayEvent, 16),
	}
}

func (s *SimAggregator) Decimals(ctx context.Context) (uint8, error) {
	return s.decimals, nil
}

func (s *SimAggregator) Description(ctx context.Context) (string, error) {
	return s.description, nil
}

func (s *SimAggregator) Version(ctx context.Context) (uint64, error) {
	return s.version, nil
}

func (s *SimAggregator) GetRoundData(ctx context.Context, roundID uint64) (feed.RoundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.rounds[roundID]
	if !ok {
		return feed.RoundRecord{}, errors.Wrapf(types.ErrRoundNotFound, "round %d", roundID)
	}
	return record, nil
}

func (s *SimAggregator) LatestRoundData(ctx context.Context) (feed.RoundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latestID == 0 {
		return feed.RoundRecord{}, errors.Wrap(types.ErrRoundNotFound, "no rounds committed")
	}
	return s.rounds[s.latestID], nil
}

// Identity returns the identity the aggregator announces events under.
func (s *SimAggregator) Identity() feed.Identity {
	return s.identity
}

// EventCh exposes the announcement channel for the coordinator to
// subscribe to.
func (s *SimAggregator) EventCh() <-chan feed.RelayEvent {
	return s.eventCh
}

// SetRound commits a fully specified record. Used by tests to stage
// out-of-order and historical rounds without announcing them.
func (s *SimAggregator) SetRound(record feed.RoundRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds[record.RoundID] = record
	if record.RoundID > s.latestID {
		s.latestID = record.RoundID
	}
}

// Advance commits the next round with the given answer and announces it.
func (s *SimAggregator) Advance(answer math.Int) feed.RoundRecord {
	s.mu.Lock()

	now := types.CurrentUnixTime()
	roundID := s.latestID + 1
	record := feed.NewRoundRecord(roundID, answer, now, now, roundID)
	s.rounds[roundID] = record
	s.latestID = roundID

	s.mu.Unlock()

	s.Announce(record)
	return record
}

// Announce pushes a PointUpdate for the given record. Non-blocking; if
// the channel is full the announcement is dropped, matching the lossy
// nature of upstream notifications.
func (s *SimAggregator) Announce(record feed.RoundRecord) {
	event := feed.NewPointUpdate(record.RoundID, record.Answer, s.identity, time.Now().UTC())
	select {
	case s.eventCh <- event:
	default:
	}
}
