package domain

import (
	"fmt"
	"time"
)

// Step status lifecycle: pending -> processing -> completed | error.
const (
	StepPending    = "pending"
	StepProcessing = "processing"
	StepCompleted  = "completed"
	StepError      = "error"
)

// Run outcomes
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// StepNames is the fixed pipeline sequence. Order and spelling are part of
// the contract; consumers key progress UI off these names.
var StepNames = []string{
	"Creating Edit Session",
	"Uploading AAB",
	"Uploading Assets",
	"Updating Metadata",
	"Policy Validation",
	"Committing Changes",
	"Review Submission",
}

// PolicyValidationStep is the only step with a failure branch.
const PolicyValidationStep = "Policy Validation"

// PublishStep is the transient per-attempt record for one pipeline step.
type PublishStep struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// Run is one publish attempt against a single project. The step list is
// reset when the next attempt for the project begins, never accumulated.
type Run struct {
	ID         string        `json:"id"`
	ProjectID  string        `json:"project_id"`
	Status     string        `json:"status"`
	Steps      []PublishStep `json:"steps"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NewSteps returns a fresh all-pending step list for one attempt.
func NewSteps() []PublishStep {
	steps := make([]PublishStep, len(StepNames))
	for i, name := range StepNames {
		steps[i] = PublishStep{
			ID:       fmt.Sprintf("%d", i+1),
			Name:     name,
			Status:   StepPending,
			Progress: 0,
		}
	}
	return steps
}

// PipelineStepError is the aggregate pipeline failure: the attempt fails
// as a whole, carrying the step that triggered it.
type PipelineStepError struct {
	Step    string
	Message string
}

func (e *PipelineStepError) Error() string {
	return fmt.Sprintf("publish step %q failed: %s", e.Step, e.Message)
}
