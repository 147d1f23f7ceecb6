package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-gate-service/internal/core/domain"
	ports "model-gate-service/internal/core/ports/output"
)

// aliasRepo is the compare-and-set cell behind the champion alias. The
// alias lives in a single row; every rebind is conditioned on the version
// the caller observed at decision time, so concurrent promotions cannot
// interleave into a state with two (or zero) holders.
type aliasRepo struct {
	pool *pgxpool.Pool
}

func NewAliasRepository(pool *pgxpool.Pool) ports.AliasRepository {
	return &aliasRepo{pool: pool}
}

func (r *aliasRepo) Get(ctx context.Context) (*domain.ProductionAlias, error) {
	query := `
		SELECT alias_name, current_version_id, assigned_at
		FROM production_alias
		WHERE alias_name = $1
	`
	var alias domain.ProductionAlias
	err := r.pool.QueryRow(ctx, query, domain.AliasChampion).
		Scan(&alias.Name, &alias.CurrentVersionID, &alias.AssignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No promotion has happened yet.
			return &domain.ProductionAlias{Name: domain.AliasChampion}, nil
		}
		return nil, fmt.Errorf("get production alias: %w", err)
	}
	return &alias, nil
}

func (r *aliasRepo) CompareAndSwap(ctx context.Context, old, new *uuid.UUID) (*domain.ProductionAlias, error) {
	var result pgconn.CommandTag
	var err error

	if old == nil {
		// First promotion (or rollback into the pre-bootstrap state): the
		// row may not exist yet, and must still be unset if it does.
		query := `
			INSERT INTO production_alias (alias_name, current_version_id, assigned_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (alias_name) DO UPDATE
				SET current_version_id = EXCLUDED.current_version_id, assigned_at = NOW()
				WHERE production_alias.current_version_id IS NULL
		`
		result, err = r.pool.Exec(ctx, query, domain.AliasChampion, new)
	} else {
		query := `
			UPDATE production_alias
			SET current_version_id = $1, assigned_at = NOW()
			WHERE alias_name = $2 AND current_version_id = $3
		`
		result, err = r.pool.Exec(ctx, query, new, domain.AliasChampion, *old)
	}
	if err != nil {
		return nil, fmt.Errorf("swap production alias: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, domain.ErrConcurrentPromotion
	}

	return r.Get(ctx)
}
