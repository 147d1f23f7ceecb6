package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

type modelRecordRepo struct {
	pool *pgxpool.Pool
}

func NewModelRecordRepository(pool *pgxpool.Pool) ports.ModelRecordRepository {
	return &modelRecordRepo{pool: pool}
}

func (r *modelRecordRepo) Create(ctx context.Context, record *domain.ModelRecord) error {
	query := `
		INSERT INTO model_record
			(version_id, created_at, updated_at, stage_tag, metric_value,
			 artifact_location, production_location, lineage_ref,
			 test_dataset_ref, promoted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.pool.Exec(ctx, query,
		record.VersionID, record.CreatedAt, record.UpdatedAt,
		string(record.StageTag), record.MetricValue,
		record.ArtifactLocation, record.ProductionLocation,
		record.LineageRef, record.TestDatasetRef, record.PromotedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("create model record: %w", err)
	}
	return nil
}

func (r *modelRecordRepo) GetByVersion(ctx context.Context, versionID uuid.UUID) (*domain.ModelRecord, error) {
	query := `
		SELECT version_id, created_at, updated_at, stage_tag, metric_value,
			   artifact_location, COALESCE(production_location, '') AS production_location,
			   lineage_ref, test_dataset_ref, promoted_at
		FROM model_record
		WHERE version_id = $1
	`
	record, err := scanModelRecord(r.pool.QueryRow(ctx, query, versionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model record: %w", err)
	}
	return record, nil
}

func (r *modelRecordRepo) Update(ctx context.Context, record *domain.ModelRecord) error {
	query := `
		UPDATE model_record
		SET updated_at=$1, stage_tag=$2, metric_value=$3,
			production_location=$4, promoted_at=$5
		WHERE version_id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		record.UpdatedAt, string(record.StageTag), record.MetricValue,
		record.ProductionLocation, record.PromotedAt, record.VersionID,
	)
	if err != nil {
		return fmt.Errorf("update model record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func (r *modelRecordRepo) List(ctx context.Context, filter ports.ModelListFilter) ([]*domain.ModelRecord, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argn := 1

	if filter.Stage != "" {
		conditions = append(conditions, fmt.Sprintf("stage_tag = $%d", argn))
		args = append(args, strings.ToUpper(filter.Stage))
		argn++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM model_record " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count model records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT version_id, created_at, updated_at, stage_tag, metric_value,
			   artifact_location, COALESCE(production_location, '') AS production_location,
			   lineage_ref, test_dataset_ref, promoted_at
		FROM model_record %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list model records: %w", err)
	}
	defer rows.Close()

	records := []*domain.ModelRecord{}
	for rows.Next() {
		record, err := scanModelRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model record: %w", err)
		}
		records = append(records, record)
	}
	return records, total, rows.Err()
}

func scanModelRecord(row pgx.Row) (*domain.ModelRecord, error) {
	var record domain.ModelRecord
	var stage string
	err := row.Scan(
		&record.VersionID, &record.CreatedAt, &record.UpdatedAt, &stage,
		&record.MetricValue, &record.ArtifactLocation, &record.ProductionLocation,
		&record.LineageRef, &record.TestDatasetRef, &record.PromotedAt,
	)
	if err != nil {
		return nil, err
	}
	record.StageTag = domain.StageTag(stage)
	return &record, nil
}
