package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

func ValidateRunStatus(status string) error {
	switch RunStatus(status) {
	case RunStatusRunning, RunStatusSucceeded, RunStatusFailed:
		return nil
	}
	return ErrInvalidRunStatus
}

// Trigger reasons recorded on pipeline runs.
const (
	TriggerManual = "manual"
	TriggerDrift  = "data-drift"
)

// StageEvent is one status change of one pipeline stage, appended to the
// owning run's event log.
type StageEvent struct {
	Stage   string    `json:"stage"`
	Status  RunStatus `json:"status"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// PipelineRun is the lineage record for one end-to-end pipeline
// invocation. Gate/promotion/drift failures are recorded against the run
// so operators can distinguish "rejected on merit" from "failed to run".
type PipelineRun struct {
	ID            uuid.UUID    `json:"run_id"`
	TriggerReason string       `json:"trigger_reason"`
	Status        RunStatus    `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Events        []StageEvent `json:"events"`
}
