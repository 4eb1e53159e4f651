// Package service implements the post lifecycle, profile, and timeline
// business logic on top of the repository and blob layers.
package service

import "encoding/json"

// CommitStatus classifies the outcome of a multi-step commit.
type CommitStatus string

const (
	// StatusApplied means every step succeeded.
	StatusApplied CommitStatus = "applied"
	// StatusIgnored means a guard rejected the request before any store call.
	StatusIgnored CommitStatus = "ignored"
	// StatusPartial means an early step succeeded but a later one failed,
	// leaving the stores in a mixed state. The failed leg can be retried.
	StatusPartial CommitStatus = "partial"
	// StatusFailed means the first mutating step failed; nothing was changed.
	StatusFailed CommitStatus = "failed"
)

// StepResult records one store operation attempted during a commit.
type StepResult struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// Error returns the step's error message, or "" when the step succeeded.
func (s StepResult) Error() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// MarshalJSON flattens the error into a plain string for API responses.
func (s StepResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Name  string `json:"name"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}{Name: s.Name, OK: s.Err == nil, Error: s.Error()}
	return json.Marshal(out)
}

// CommitResult reports what a submit actually did. Steps are listed in the
// order they ran; steps that were never reached are absent.
type CommitResult struct {
	Status   CommitStatus `json:"status"`
	Reason   string       `json:"reason,omitempty"`
	Steps    []StepResult `json:"steps,omitempty"`
	PhotoURL string       `json:"photoUrl,omitempty"`
}

// DeleteResult reports what a delete actually did.
type DeleteResult struct {
	Status CommitStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
	Steps  []StepResult `json:"steps,omitempty"`
}

func ignored(reason string) *CommitResult {
	return &CommitResult{Status: StatusIgnored, Reason: reason}
}
