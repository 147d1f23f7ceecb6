package domain

import (
	"time"

	"github.com/google/uuid"
)

type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// EvaluationResult is the immutable record of one acceptance decision.
// Champion fields are nil for the bootstrap case (no production model yet).
type EvaluationResult struct {
	ID                  uuid.UUID  `json:"id"`
	CandidateVersionID  uuid.UUID  `json:"candidate_version_id"`
	ChampionVersionID   *uuid.UUID `json:"champion_version_id"`
	CandidateMetric     float64    `json:"candidate_metric"`
	ChampionMetric      *float64   `json:"champion_metric"`
	ThresholdMargin     float64    `json:"threshold_margin"`
	Decision            Decision   `json:"decision"`
	TestDatasetRef      string     `json:"test_dataset_ref"`
	TestDatasetChecksum string     `json:"test_dataset_checksum"`
	CreatedAt           time.Time  `json:"created_at"`
}
