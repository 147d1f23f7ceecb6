package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

type driftReportRepo struct {
	pool *pgxpool.Pool
}

func NewDriftReportRepository(pool *pgxpool.Pool) ports.DriftReportRepository {
	return &driftReportRepo{pool: pool}
}

func (r *driftReportRepo) Create(ctx context.Context, report *domain.DriftReport) error {
	featuresJSON, err := json.Marshal(report.Features)
	if err != nil {
		return fmt.Errorf("marshal drift features: %w", err)
	}

	query := `
		INSERT INTO drift_report
			(id, reference_ref, window_date, threshold, window_size,
			 features, retraining_triggered, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err = r.pool.Exec(ctx, query,
		report.ID, report.ReferenceRef, report.WindowDate, report.Threshold,
		report.WindowSize, featuresJSON, report.RetrainingTriggered,
		report.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDriftReportConflict
		}
		return fmt.Errorf("create drift report: %w", err)
	}
	return nil
}

const driftReportColumns = `
	id, reference_ref, to_char(window_date, 'YYYY-MM-DD'), threshold,
	window_size, features, retraining_triggered, created_at
`

func (r *driftReportRepo) GetByKey(ctx context.Context, windowDate, referenceRef string) (*domain.DriftReport, error) {
	query := "SELECT " + driftReportColumns + ` FROM drift_report
		WHERE window_date = $1 AND reference_ref = $2`
	report, err := scanDriftReport(r.pool.QueryRow(ctx, query, windowDate, referenceRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriftReportNotFound
		}
		return nil, fmt.Errorf("get drift report: %w", err)
	}
	return report, nil
}

func (r *driftReportRepo) GetLatest(ctx context.Context) (*domain.DriftReport, error) {
	query := "SELECT " + driftReportColumns + " FROM drift_report ORDER BY created_at DESC LIMIT 1"
	report, err := scanDriftReport(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriftReportNotFound
		}
		return nil, fmt.Errorf("get latest drift report: %w", err)
	}
	return report, nil
}

func (r *driftReportRepo) List(ctx context.Context, limit, offset int) ([]*domain.DriftReport, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM drift_report").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count drift reports: %w", err)
	}

	query := "SELECT " + driftReportColumns + ` FROM drift_report
		ORDER BY window_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list drift reports: %w", err)
	}
	defer rows.Close()

	reports := []*domain.DriftReport{}
	for rows.Next() {
		report, err := scanDriftReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan drift report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, total, rows.Err()
}

func scanDriftReport(row pgx.Row) (*domain.DriftReport, error) {
	var report domain.DriftReport
	var featuresJSON []byte
	err := row.Scan(
		&report.ID, &report.ReferenceRef, &report.WindowDate, &report.Threshold,
		&report.WindowSize, &featuresJSON, &report.RetrainingTriggered,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(featuresJSON, &report.Features); err != nil {
		return nil, fmt.Errorf("unmarshal drift features: %w", err)
	}
	return &report, nil
}
