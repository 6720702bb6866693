package domain

import "time"

// RunStatus is the outcome of a run.
type RunStatus string

const (
	RunPassed  RunStatus = "passed"
	RunFailed  RunStatus = "failed"
	RunAborted RunStatus = "aborted"
	RunError   RunStatus = "error"
)

// StepResult is the outcome of a single step.
type StepResult struct {
	Phase    Phase         `json:"phase"`
	Group    string        `json:"group,omitempty"`
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`

	// Output holds the tail of the combined stdout/stderr.
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`

	Skipped bool `json:"skipped,omitempty"`

	// Ignored marks a failure that did not abort the group.
	Ignored bool `json:"ignored,omitempty"`
}

// Failed reports whether the step counts as a failure.
func (s StepResult) Failed() bool {
	if s.Skipped || s.Ignored {
		return false
	}
	return s.ExitCode != 0 || s.Error != ""
}

// RunRecord is the persisted outcome of executing one plan.
type RunRecord struct {
	ID         string       `json:"id"`
	Selector   string       `json:"selector"`
	Status     RunStatus    `json:"status"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepResult `json:"steps"`
	Error      string       `json:"error,omitempty"`
}

// Duration is the wall time of the run.
func (r RunRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Passed reports whether the run finished without failures.
func (r RunRecord) Passed() bool {
	return r.Status == RunPassed
}

// Counts returns the number of passed, failed and skipped steps.
func (r RunRecord) Counts() (passed, failed, skipped int) {
	for _, s := range r.Steps {
		switch {
		case s.Skipped:
			skipped++
		case s.Failed():
			failed++
		default:
			passed++
		}
	}
	return passed, failed, skipped
}
