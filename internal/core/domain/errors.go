package domain

import "errors"

// ============================================================================
// Registry Errors
// ============================================================================

var (
	ErrModelNotFound       = errors.New("model record not found")
	ErrEvaluationNotFound  = errors.New("evaluation result not found")
	ErrDriftReportNotFound = errors.New("drift report not found")
	ErrRunNotFound         = errors.New("pipeline run not found")
	ErrNoProductionModel   = errors.New("no model currently holds the champion alias")
)

// Conflict errors
var (
	ErrVersionConflict     = errors.New("model version is already registered")
	ErrDriftReportConflict = errors.New("drift report already exists for this date and reference dataset")
)

// Validation errors
var (
	ErrInvalidArtifactLocation = errors.New("artifact location is required")
	ErrInvalidLineageRef       = errors.New("lineage ref is required")
	ErrInvalidStage            = errors.New("invalid stage tag")
	ErrInvalidRunStatus        = errors.New("invalid run status")
	ErrInvalidMargin           = errors.New("threshold margin must be non-negative")
	ErrInvalidThreshold        = errors.New("drift threshold must be in (0, 1)")
	ErrInvalidDate             = errors.New("window date must be an ISO calendar date (YYYY-MM-DD)")
	ErrInvalidTestDatasetRef   = errors.New("test dataset ref is required")
)

// ============================================================================
// Gate Errors
// ============================================================================

var (
	// ErrDataMismatch: candidate and champion were not scored on the same
	// test set. Deterministic given fixed inputs, so never retried.
	ErrDataMismatch = errors.New("candidate and champion were not scored on the identical test set")

	// ErrModelLoad is fatal: the alias points at a version whose artifact
	// cannot be retrieved. This is a consistency violation and must never
	// silently degrade to the bootstrap "no champion" path.
	ErrModelLoad = errors.New("champion artifact could not be loaded despite the alias being set")

	// ErrInvalidState: promotion was requested for a model that is not
	// approved. A caller contract violation, not a transient condition.
	ErrInvalidState = errors.New("model is not approved for promotion")

	// ErrPromotion: the artifact export failed after the alias swap; the
	// alias has been rolled back to the previous holder.
	ErrPromotion = errors.New("promotion failed and the alias was rolled back")

	// ErrConcurrentPromotion: the alias moved between decision time and the
	// swap. The loser must re-evaluate against the new champion, not
	// blindly retry the promotion.
	ErrConcurrentPromotion = errors.New("production alias changed concurrently; re-evaluate against the new champion")
)

// Drift errors
var (
	ErrInsufficientData = errors.New("observation window contains no data for the requested date")
	ErrSchemaMismatch   = errors.New("reference and window columns do not align")
)
