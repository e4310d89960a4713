// Package monitor provides pipeline health monitoring: metric snapshots,
// threshold alerts and a rolled-up health status.
package monitor

import "errors"

// Sentinel errors for monitoring use case operations.
var (
	// ErrAlertNotFound indicates the requested alert was not found.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrNoMetrics indicates no metric snapshot has been recorded yet.
	ErrNoMetrics = errors.New("no metrics recorded")
)
