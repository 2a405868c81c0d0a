// Package metrics provides Prometheus metrics for the assembler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapsTotal counts snap attempts by algorithm and outcome.
	SnapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocket_snap_total",
			Help: "Snap attempts by algorithm and result",
		},
		[]string{"algorithm", "result"},
	)

	// CommandsTotal counts accepted store commands.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocket_commands_total",
			Help: "Assembly store commands applied",
		},
		[]string{"command"},
	)

	// PersistFailures counts snapshot writes that returned an error.
	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rocket_persist_failures_total",
			Help: "Snapshot writes that failed",
		},
	)

	// CatalogReloads counts catalog polls by result.
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocket_catalog_reloads_total",
			Help: "Catalog poll outcomes",
		},
		[]string{"result"},
	)

	// PlacedParts is the number of parts in the assembly after the last command.
	PlacedParts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rocket_placed_parts",
			Help: "Parts currently in the assembly",
		},
	)
)

// RecordSnap counts one snap attempt.
func RecordSnap(algorithm string, accepted bool) {
	result := "miss"
	if accepted {
		result = "hit"
	}
	SnapsTotal.WithLabelValues(algorithm, result).Inc()
}

// RecordCommand counts one applied command.
func RecordCommand(command string) {
	CommandsTotal.WithLabelValues(command).Inc()
}
