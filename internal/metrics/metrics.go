package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementComputations counts settlement plan computations.
	SettlementComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_settlement_computations_total",
		Help: "Number of settlement plan computations.",
	})

	// SettlementTransfers counts transfers suggested across all plans.
	SettlementTransfers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmate_settlement_transfers_total",
		Help: "Number of transfers suggested across all computed plans.",
	})

	// SettlementDuration tracks time spent computing settlement plans.
	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitmate_settlement_duration_seconds",
		Help:    "Time spent computing settlement plans.",
		Buckets: prometheus.DefBuckets,
	})
)
