package types

import "time"

const (
	OriginGateName      = "origin_gate"
	RelayerName         = "relayer"
	DestinationGateName = "destination_gate"

	OriginOutboxName      = "origin_outbox"
	DestinationOutboxName = "destination_outbox"
)

// DefaultStalenessBound is the maximum tolerated age of round data,
// measured against its updated-at timestamp. Data exactly at the bound
// is still accepted.
const DefaultStalenessBound = 2 * time.Hour

// Outbound instruction budgets, in opaque resource units. Enrichment is
// read-heavy on the origin ledger and ingestion write-heavy on the
// destination ledger, so the two budgets are distinct constants.
const (
	DefaultEnrichBudget uint64 = 50_000_000_000_000
	DefaultIngestBudget uint64 = 30_000_000_000_000
)
