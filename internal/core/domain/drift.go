package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDriftThreshold is the significance level used when the caller
// does not supply one.
const DefaultDriftThreshold = 0.05

// FeatureDrift is the two-sample test outcome for a single feature.
// Drifted is true iff PValue < the report's Threshold.
type FeatureDrift struct {
	Feature   string  `json:"feature"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Drifted   bool    `json:"drifted"`
}

// DriftReport is one monitoring invocation, keyed by (WindowDate,
// ReferenceRef) and immutable once created. RetrainingTriggered is true
// iff at least one feature drifted; coalescing repeated triggers is the
// external scheduler's concern.
type DriftReport struct {
	ID                  uuid.UUID      `json:"id"`
	ReferenceRef        string         `json:"reference_dataset_ref"`
	WindowDate          string         `json:"window_date"`
	Threshold           float64        `json:"threshold"`
	WindowSize          int            `json:"window_size"`
	Features            []FeatureDrift `json:"features"`
	RetrainingTriggered bool           `json:"retraining_triggered"`
	CreatedAt           time.Time      `json:"created_at"`
}

// DriftedFeatures returns the names of all drifted features, in report order.
func (r *DriftReport) DriftedFeatures() []string {
	names := make([]string, 0, len(r.Features))
	for _, f := range r.Features {
		if f.Drifted {
			names = append(names, f.Feature)
		}
	}
	return names
}
