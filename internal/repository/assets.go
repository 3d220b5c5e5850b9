package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

func (r *Repository) CreateAsset(asset *domain.Asset) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO assets (hr_email, product_name, product_type, product_image, available_quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{asset.HREmail, asset.ProductName, asset.ProductType, asset.ProductImage, asset.AvailableQuantity}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&asset.ID, &asset.CreatedAt, &asset.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAssetByID(id int64) (*domain.Asset, error) {
	query := `
		SELECT hr_email, product_name, product_type, product_image, available_quantity, created_at, version
		FROM assets WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	asset := &domain.Asset{
		ID: id,
	}

	dst := []any{&asset.HREmail, &asset.ProductName, &asset.ProductType, &asset.ProductImage, &asset.AvailableQuantity, &asset.CreatedAt, &asset.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *Repository) GetAssetsByHR(hrEmail string) ([]*domain.Asset, error) {
	query := `
		SELECT id, product_name, product_type, product_image, available_quantity, created_at, version
		FROM assets WHERE hr_email = $1 ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, hrEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset := &domain.Asset{
			HREmail: hrEmail,
		}
		dst := []any{&asset.ID, &asset.ProductName, &asset.ProductType, &asset.ProductImage, &asset.AvailableQuantity, &asset.CreatedAt, &asset.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assets, nil
}

func (r *Repository) UpdateAsset(asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET
			product_name = $1,
			product_type = $2,
			product_image = $3,
			available_quantity = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{asset.ProductName, asset.ProductType, asset.ProductImage, asset.AvailableQuantity, asset.ID, asset.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&asset.CreatedAt, &asset.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAsset(id int64) error {
	query := `
		DELETE FROM assets WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
