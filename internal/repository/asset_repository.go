package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// AssetRepository encapsulates inventory persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	List(ctx context.Context) ([]domain.Asset, error)
	Delete(ctx context.Context, id int64) error
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	const query = `
        INSERT INTO assets (name, category, serial_number, assigned_to, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		asset.Name,
		asset.Category,
		asset.SerialNumber,
		asset.AssignedTo,
		asset.Status,
	).Scan(&asset.ID)
}

func (r *assetRepository) List(ctx context.Context) ([]domain.Asset, error) {
	const query = `
        SELECT id, name, category, serial_number, assigned_to, status
        FROM assets ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(
			&asset.ID,
			&asset.Name,
			&asset.Category,
			&asset.SerialNumber,
			&asset.AssignedTo,
			&asset.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}

func (r *assetRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
