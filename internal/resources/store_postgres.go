// Copyright (c) 2026 Keeply. All rights reserved.
// Author: dev@keeply.app

package resources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keeply/keeply/internal/platform/apperr"
	"github.com/keeply/keeply/internal/platform/dberr"
	"github.com/keeply/keeply/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx. Every query carries
// the owner_id predicate so a missing row and a foreign row are
// indistinguishable to callers.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const resourceColumns = `id, owner_id, title, content, created_at, updated_at`

// Create persists a new resource record.
func (repository *PostgresRepository) Create(ctx context.Context, resource *Resource) (*Resource, error) {
	const query = `
		INSERT INTO resources (id, owner_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		resource.ID,
		resource.OwnerID,
		resource.Title,
		resource.Content,
		resource.CreatedAt,
		resource.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Resource")
	}

	return resource, nil
}

// FindByOwnerAndID retrieves a single resource within the owner's scope.
func (repository *PostgresRepository) FindByOwnerAndID(ctx context.Context, ownerID, id string) (*Resource, error) {
	const query = `SELECT ` + resourceColumns + ` FROM resources WHERE owner_id = $1 AND id = $2`

	resource, err := repository.scanRow(repository.pool.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Resource")
		}
		return nil, fmt.Errorf("postgres_resource_repo_find_failed: %w", err)
	}

	return resource, nil
}

// ListByOwner returns one page of the owner's resources, newest first.
func (repository *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, params pagination.Params) ([]Resource, int, error) {
	const countQuery = `SELECT COUNT(*) FROM resources WHERE owner_id = $1`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_resource_repo_count_failed: %w", err)
	}

	const listQuery = `
		SELECT ` + resourceColumns + `
		FROM resources
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, listQuery, ownerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_resource_repo_list_failed: %w", err)
	}
	defer rows.Close()

	items := make([]Resource, 0, params.Limit)
	for rows.Next() {
		var resource Resource
		if err := rows.Scan(
			&resource.ID,
			&resource.OwnerID,
			&resource.Title,
			&resource.Content,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_resource_repo_scan_failed: %w", err)
		}
		items = append(items, resource)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_resource_repo_rows_failed: %w", err)
	}

	return items, total, nil
}

// Update changes the mutable fields and returns the updated row.
func (repository *PostgresRepository) Update(ctx context.Context, ownerID, id, title, content string) (*Resource, error) {
	const query = `
		UPDATE resources
		SET title = $3, content = $4, updated_at = $5
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + resourceColumns

	resource, err := repository.scanRow(repository.pool.QueryRow(ctx, query, ownerID, id, title, content, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Resource")
		}
		return nil, fmt.Errorf("postgres_resource_repo_update_failed: %w", err)
	}

	return resource, nil
}

// Delete removes the resource within the owner's scope.
func (repository *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM resources WHERE owner_id = $1 AND id = $2`

	tag, err := repository.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("postgres_resource_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Resource")
	}

	return nil
}

func (repository *PostgresRepository) scanRow(row pgx.Row) (*Resource, error) {
	var resource Resource

	err := row.Scan(
		&resource.ID,
		&resource.OwnerID,
		&resource.Title,
		&resource.Content,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &resource, nil
}
