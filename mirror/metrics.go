package mirror

import (
	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/server/metrics"
	"github.com/feedmirror/feedmirror/types"
)

func (m *Mirror) MetricsUpdateInterval() int64 {
	return m.cfg.MetricsInterval
}

// UpdateMetrics implements the metrics.Updater interface
func (m *Mirror) UpdateMetrics() error {
	status := m.GetStatus()

	metrics.OriginLastProcessedRound.Set(float64(status.Origin.LastProcessedRound))
	metrics.RelayerLastProcessedRound.Set(float64(status.Relayer.LastProcessedRound))
	metrics.DestinationLatestRound.Set(float64(status.Destination.LatestRoundID))
	metrics.RelayerPendingRounds.Set(float64(len(status.Relayer.PendingRounds)))

	for _, outboxStatus := range []struct {
		target    string
		queueLen  int
		delivered uint64
		failed    uint64
	}{
		{status.Relayer.OriginOutbox.Target, status.Relayer.OriginOutbox.QueueLen, status.Relayer.OriginOutbox.Delivered, status.Relayer.OriginOutbox.Failed},
		{status.Relayer.DestinationOutbox.Target, status.Relayer.DestinationOutbox.QueueLen, status.Relayer.DestinationOutbox.Delivered, status.Relayer.DestinationOutbox.Failed},
	} {
		metrics.OutboxQueueLen.WithLabelValues(outboxStatus.target).Set(float64(outboxStatus.queueLen))
		metrics.OutboxDelivered.WithLabelValues(outboxStatus.target).Set(float64(outboxStatus.delivered))
		metrics.OutboxFailed.WithLabelValues(outboxStatus.target).Set(float64(outboxStatus.failed))
	}

	rings := map[string]*feed.SignalRing{
		types.OriginGateName:      m.origin.Signals(),
		types.RelayerName:         m.relayer.Signals(),
		types.DestinationGateName: m.destination.Signals(),
	}
	for component, ring := range rings {
		for _, kind := range feed.SignalKinds {
			metrics.Signals.WithLabelValues(component, string(kind)).Set(float64(ring.Count(kind)))
		}
	}
	return nil
}
