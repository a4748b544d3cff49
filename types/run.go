package types

// RunStatus is the lifecycle state of a run.
// Transitions: pending → running → completed | failed. Terminal states admit
// no further transitions; a rerun always creates a new Run.
type RunStatus string

const (
	// RunPending marks a run that has been created but not started
	RunPending RunStatus = "pending"
	// RunRunning marks a run whose step loop is executing
	RunRunning RunStatus = "running"
	// RunCompleted marks a run that ended normally
	RunCompleted RunStatus = "completed"
	// RunFailed marks a run terminated by an error
	RunFailed RunStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// StepLog records one executed step: the node, the tool it dispatched to,
// and a deep copy of the run state as observed immediately after the tool
// ran. The snapshot must never alias the live state.
type StepLog struct {
	Node          string `json:"node"`
	Tool          string `json:"tool"`
	StateSnapshot State  `json:"state_snapshot"`
}

// Run is the record of a single workflow execution. State and Log are
// exclusively owned by the run for its lifetime; CurrentNode is empty only
// before the first step or after the loop ends without a taken edge.
type Run struct {
	RunID       string    `json:"run_id"`
	GraphID     string    `json:"graph_id"`
	Status      RunStatus `json:"status"`
	CurrentNode string    `json:"current_node,omitempty"`
	State       State     `json:"state"`
	Log         []StepLog `json:"log"`
}
