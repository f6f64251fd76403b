package reporting

import "time"

// LoopReport is a complete record of one TDP session: why it stopped, the
// final diagnosis distribution, and every test the controller executed
// along the way. It intentionally carries no dependency on pkg/tdp or
// pkg/diagnosis — the CLI layer translates a tdp.Result into one of these
// so the reporting package stays a leaf the rest of the engine can import
// without a cycle.
type LoopReport struct {
	SessionID string    `json:"session_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  string    `json:"duration"`

	// Final controller state and why the loop stopped.
	State  string       `json:"state"`
	Reason ReportReason `json:"reason"`

	Iterations int     `json:"iterations"`
	Entropy    float64 `json:"entropy"`

	// Distribution is the terminal diagnosis distribution, sorted by
	// descending probability.
	Distribution []DiagnosisResult `json:"distribution,omitempty"`

	// ExecutedTests records every test the controller ran, in order.
	ExecutedTests []ExecutedTest `json:"executed_tests,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

// ReportReason mirrors tdp.TerminationReason plus two outcomes the loop
// itself never produces: a session stopped by cancellation, and a session
// that failed outright before reaching a termination predicate.
type ReportReason string

const (
	ReasonNoFailure ReportReason = "no_failure"
	ReasonSolved    ReportReason = "solved"
	ReasonExhausted ReportReason = "exhausted"
	ReasonCancelled ReportReason = "cancelled"
	ReasonError     ReportReason = "error"
)

// DiagnosisResult is one candidate explanation in the terminal
// distribution: the suspect component set and its assigned probability.
type DiagnosisResult struct {
	Components  []string `json:"components"`
	Probability float64  `json:"probability"`
	Size        int      `json:"size"`
}

// ExecutedTest records one test the controller ran during planning, the
// result the executor reported, and when it ran.
type ExecutedTest struct {
	Name      string    `json:"name"`
	Failed    bool      `json:"failed"`
	Trace     []string  `json:"trace,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// LiveLoopState represents the controller's state at a single instant,
// for progress reporting while a session is still running.
type LiveLoopState struct {
	SessionID   string        `json:"session_id"`
	State       string        `json:"state"`
	Iteration   int           `json:"iteration"`
	StartTime   time.Time     `json:"start_time"`
	Elapsed     time.Duration `json:"elapsed"`
	Entropy     float64       `json:"entropy,omitempty"`
	TopAffinity float64       `json:"top_affinity,omitempty"`
	Candidates  int           `json:"candidates,omitempty"`
}
