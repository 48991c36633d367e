// Package metrics holds the Prometheus collectors of wingsync.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	Transfers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wingsync",
		Name:      "transfers_total",
		Help:      "Total number of transfers by result (ok, partial, error)",
	}, []string{"result"})

	TransferDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wingsync",
		Name:      "transfer_duration_seconds",
		Help:      "Wall time of a transfer from discovery to the last strip rename",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 10},
	})

	Replies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wingsync",
		Name:      "replies_total",
		Help:      "Total number of decoded console replies by kind",
	}, []string{"kind"})

	ChannelsResolved = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wingsync",
		Name:      "channels_resolved",
		Help:      "Number of channels named by the last finished transfer",
	})

	StripsRenamed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wingsync",
		Name:      "strips_renamed_total",
		Help:      "Total number of recorder strips renamed",
	})
)

// Register registers metrics into the default Prometheus registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(Transfers)
		prometheus.MustRegister(TransferDuration)
		prometheus.MustRegister(Replies)
		prometheus.MustRegister(ChannelsResolved)
		prometheus.MustRegister(StripsRenamed)
	})
}
