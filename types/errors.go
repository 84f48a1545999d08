package types

import "errors"

// Rejection taxonomy shared by the gates and the relayer. All of these
// reject a single request; none of them is fatal to the process.
var (
	// ErrUnauthorizedCaller is returned when the caller identity or the
	// ultimate originator identity does not match the configured relay.
	ErrUnauthorizedCaller = errors.New("unauthorized caller")

	// ErrStaleRound is returned when a round id is not strictly greater
	// than the component's cursor. Covers both duplicates and backwards
	// deliveries.
	ErrStaleRound = errors.New("stale round")

	// ErrInvalidRoundData is returned when the upstream fetch fails,
	// returns a mismatched round id, or a zero updated-at timestamp.
	ErrInvalidRoundData = errors.New("invalid round data")

	// ErrStaleData is returned when the round data is older than the
	// staleness bound.
	ErrStaleData = errors.New("stale data")

	// ErrRoundNotFound is returned on reads of rounds that were never
	// ingested.
	ErrRoundNotFound = errors.New("round not found")

	// ErrUnknownEvent is returned when an event does not match any
	// subscribed shape or its source identity is not the configured peer.
	ErrUnknownEvent = errors.New("unknown event")
)
