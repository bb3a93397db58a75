package constants

// RunStatus is the canonical status for a validation run.
type RunStatus string

// Stable values (serialized in API responses).
const (
	RunStatusRunning RunStatus = "RUNNING" // in progress
	RunStatusDone    RunStatus = "DONE"    // completed, report available
	RunStatusFailed  RunStatus = "FAILED"  // terminal failure before any report
)
