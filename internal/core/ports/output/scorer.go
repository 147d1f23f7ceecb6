package ports

import "context"

// ScoreResult carries one model's held-out metric together with the
// checksum of the dataset it was actually scored on. The gate compares
// checksums across the candidate and champion scores to detect test-set
// mismatches.
type ScoreResult struct {
	Metric          float64
	DatasetChecksum string
}

// ModelScorer scores a model artifact on a test dataset. It abstracts
// over the concrete learner (XGBoost, random forest, ...); the gate only
// sees the recorded metric, where higher is better.
type ModelScorer interface {
	Score(ctx context.Context, artifactLocation, testDatasetRef string) (*ScoreResult, error)
}
