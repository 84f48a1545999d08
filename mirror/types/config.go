package types

import (
	"time"

	"github.com/pkg/errors"

	servertypes "github.com/feedmirror/feedmirror/server/types"
	"github.com/feedmirror/feedmirror/types"
)

type Config struct {
	// Version is the config format version.
	Version uint8 `json:"version"`

	// Server is the configuration for the query server.
	Server servertypes.ServerConfig `json:"server"`

	// OracleIdentity is the identity point updates must declare.
	OracleIdentity string `json:"oracle_identity"`
	// OriginGateIdentity is the identity enrichment notifications must declare.
	OriginGateIdentity string `json:"origin_gate_identity"`
	// RelayIdentity is the identity the relay uses when calling the gates.
	RelayIdentity string `json:"relay_identity"`

	// Decimals and Description are the feed metadata served by the
	// destination gate.
	Decimals    uint8  `json:"decimals"`
	Description string `json:"description"`

	// StalenessBound is the maximum accepted record age in seconds.
	StalenessBound int64 `json:"staleness_bound"` // seconds
	// HeartbeatInterval is the fallback trigger period in seconds.
	HeartbeatInterval int64 `json:"heartbeat_interval"` // seconds

	// EnrichBudget and IngestBudget are the resource budgets attached to
	// origin-directed and destination-directed instructions.
	EnrichBudget uint64 `json:"enrich_budget"`
	IngestBudget uint64 `json:"ingest_budget"`

	// Sim runs the built-in simulated aggregator, advancing one round
	// every SimInterval seconds. Useful for local runs.
	Sim         bool  `json:"sim"`
	SimInterval int64 `json:"sim_interval"` // seconds

	// MetricsInterval is the metrics refresh period in seconds.
	MetricsInterval int64 `json:"metrics_interval"` // seconds
}

func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: servertypes.ServerConfig{
			Address:      "localhost:3000",
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept",
			AllowMethods: "GET",
		},

		OracleIdentity:     "oracle.upstream",
		OriginGateIdentity: "gate.origin",
		RelayIdentity:      "relay.feedmirror",

		Decimals:    8,
		Description: "BTC / USD",

		StalenessBound:    int64(types.DefaultStalenessBound.Seconds()),
		HeartbeatInterval: 300,

		EnrichBudget: types.DefaultEnrichBudget,
		IngestBudget: types.DefaultIngestBudget,

		Sim:         true,
		SimInterval: 10,

		MetricsInterval: 15,
	}
}

func (cfg Config) Validate() error {
	if cfg.Version == 0 {
		return errors.New("version is required")
	}
	if cfg.Version != 1 {
		return errors.Errorf("unsupported version: %d", cfg.Version)
	}

	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	if cfg.OracleIdentity == "" {
		return errors.New("oracle identity is required")
	}
	if cfg.OriginGateIdentity == "" {
		return errors.New("origin gate identity is required")
	}
	if cfg.RelayIdentity == "" {
		return errors.New("relay identity is required")
	}

	if cfg.StalenessBound < 0 {
		return errors.New("staleness bound must not be negative")
	}
	if cfg.HeartbeatInterval <= 0 {
		return errors.New("heartbeat interval must be positive")
	}
	if cfg.Sim && cfg.SimInterval <= 0 {
		return errors.New("sim interval must be positive")
	}
	if cfg.MetricsInterval <= 0 {
		return errors.New("metrics interval must be positive")
	}
	return nil
}

func (cfg Config) StalenessBoundDuration() time.Duration {
	return time.Duration(cfg.StalenessBound) * time.Second
}

func (cfg Config) HeartbeatIntervalDuration() time.Duration {
	return time.Duration(cfg.HeartbeatInterval) * time.Second
}
