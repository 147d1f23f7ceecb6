package ports

import (
	"context"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

type ModelListFilter struct {
	Stage  string
	Limit  int
	Offset int
}

type ModelRecordRepository interface {
	Create(ctx context.Context, record *domain.ModelRecord) error
	GetByVersion(ctx context.Context, versionID uuid.UUID) (*domain.ModelRecord, error)
	Update(ctx context.Context, record *domain.ModelRecord) error
	List(ctx context.Context, filter ModelListFilter) ([]*domain.ModelRecord, int, error)
}

// AliasRepository is the versioned compare-and-set cell behind the single
// champion alias.
type AliasRepository interface {
	// Get returns the current alias binding. Before the first promotion it
	// returns an alias with a nil CurrentVersionID, not an error.
	Get(ctx context.Context) (*domain.ProductionAlias, error)

	// CompareAndSwap rebinds the alias from old to new in one atomic step.
	// old is the version observed at decision time (nil before the first
	// promotion); new is nil only on rollback of a failed first promotion.
	// Returns domain.ErrConcurrentPromotion when the alias no longer holds
	// old.
	CompareAndSwap(ctx context.Context, old, new *uuid.UUID) (*domain.ProductionAlias, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, result *domain.EvaluationResult) error
	GetLatest(ctx context.Context) (*domain.EvaluationResult, error)
	ListByCandidate(ctx context.Context, candidateVersionID uuid.UUID) ([]*domain.EvaluationResult, error)
	List(ctx context.Context, limit, offset int) ([]*domain.EvaluationResult, int, error)
}

type DriftReportRepository interface {
	Create(ctx context.Context, report *domain.DriftReport) error
	GetByKey(ctx context.Context, windowDate, referenceRef string) (*domain.DriftReport, error)
	GetLatest(ctx context.Context) (*domain.DriftReport, error)
	List(ctx context.Context, limit, offset int) ([]*domain.DriftReport, int, error)
}

type PipelineRunRepository interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RunStatus) error
	AppendEvent(ctx context.Context, id uuid.UUID, event domain.StageEvent) error
}
