package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CustomRegistry = prometheus.NewRegistry()
	factory        = promauto.With(CustomRegistry)

	// per-component cursors
	OriginLastProcessedRound = factory.NewGauge(prometheus.GaugeOpts{
		Name: "feedmirror_origin_last_processed_round",
		Help: "Origin gate last processed round id",
	})

	RelayerLastProcessedRound = factory.NewGauge(prometheus.GaugeOpts{
		Name: "feedmirror_relayer_last_processed_round",
		Help: "Relayer last processed round id",
	})

	DestinationLatestRound = factory.NewGauge(prometheus.GaugeOpts{
		Name: "feedmirror_destination_latest_round",
		Help: "Destination gate latest ingested round id",
	})

	// relay state
	RelayerPendingRounds = factory.NewGauge(prometheus.GaugeOpts{
		Name: "feedmirror_relayer_pending_rounds",
		Help: "Number of rounds awaiting enrichment",
	})

	// outbox state by target gate
	OutboxQueueLen = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feedmirror_outbox_queue_len",
		Help: "Undelivered instructions by target",
	}, []string{"target"})

	OutboxDelivered = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feedmirror_outbox_delivered",
		Help: "Delivered instructions by target",
	}, []string{"target"})

	OutboxFailed = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feedmirror_outbox_failed",
		Help: "Instructions whose processing failed, by target",
	}, []string{"target"})

	// recent signals by component and kind
	Signals = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feedmirror_signals",
		Help: "Recent signals by component and kind",
	}, []string{"component", "kind"})
)
