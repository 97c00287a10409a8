package internal

import "time"

// Service constants
const (
	// HistorySize is the number of published rolls kept in the snapshot.
	HistorySize = 10

	// ShutdownTimeout bounds how long the HTTP server waits for in-flight
	// requests on close.
	ShutdownTimeout = 5 * time.Second

	// SentryFlushTimeout bounds how long pending crash reports are flushed
	// for on exit.
	SentryFlushTimeout = 2 * time.Second
)

// Simulation constants
const (
	// CollisionLogSpeed is the impact speed above which a collision is
	// logged. It stands in for the clack of a die hitting the table.
	CollisionLogSpeed = 4.0

	// SimulationStepBudget is the most physics steps a headless roll may
	// take before it is reported as stalled (one minute at 120 Hz).
	SimulationStepBudget = 120 * 60
)
