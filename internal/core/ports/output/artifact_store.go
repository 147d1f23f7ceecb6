package ports

import (
	"context"

	"github.com/google/uuid"

	"model-gate-service/internal/core/domain"
)

// ArtifactStore is the content-addressable store holding model bundles,
// datasets and reports. The gate owns only decision metadata; durable
// bytes live here.
type ArtifactStore interface {
	// Exists reports whether the object at location can be retrieved.
	Exists(ctx context.Context, location string) (bool, error)

	// ExportToProduction copies the model bundle into the dedicated
	// production-readable prefix and writes a metadata document next to
	// it, so serving consumers only need to resolve the alias. Returns
	// the production location.
	ExportToProduction(ctx context.Context, location string, versionID uuid.UUID, metadata map[string]string) (string, error)

	// PutDiagnostics persists a human-facing report. It is a side channel
	// only; nothing on the automated decision path reads it back.
	PutDiagnostics(ctx context.Context, key string, payload []byte) error
}

// DatasetReader loads columnar data for drift detection.
type DatasetReader interface {
	// LoadReference loads the static reference dataset the production
	// model was trained and validated against.
	LoadReference(ctx context.Context, ref string) (*domain.Dataset, error)

	// LoadWindow loads all observations logged for one UTC calendar day.
	// An empty dataset (zero rows) is returned as-is; the caller decides
	// whether that is an error.
	LoadWindow(ctx context.Context, date string) (*domain.Dataset, error)
}
