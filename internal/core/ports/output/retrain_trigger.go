package ports

import "context"

// RetrainRequest is the payload of a retraining signal. The training
// stage re-pulls current reference data itself; the payload exists for
// run lineage, not as an input to training.
type RetrainRequest struct {
	Reason          string
	DriftDate       string
	Threshold       float64
	DriftedFeatures []string
}

// RetrainTrigger fires the external training pipeline. Requests are
// fire-and-forget; coalescing of concurrent triggers is the external
// scheduler's concern.
type RetrainTrigger interface {
	TriggerRetraining(ctx context.Context, req RetrainRequest) error
}
