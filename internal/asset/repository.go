// AngelaMos | 2026
// repository.go

package asset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/assetdesk/internal/core"
)

const detailColumns = `
	a.id, a.name, a.category_id, a.serial_number, a.purchase_date, a.status,
	a.assigned_to_id, a.assigned_at, a.image, a.created_at, a.updated_at,
	c.name AS category_name,
	CASE WHEN u.id IS NULL THEN NULL
	     ELSE u.first_name || ' ' || u.last_name END AS assignee_name,
	u.email AS assignee_email`

type Repository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	GetDetail(ctx context.Context, id string) (*Detail, error)
	GetForUpdate(ctx context.Context, id string) (*Asset, error)
	Update(ctx context.Context, asset *Asset) error
	SetStatus(ctx context.Context, id, status string) error
	Assign(ctx context.Context, id, userID string) error
	UpdateImage(ctx context.Context, id string, image *string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListAssetsParams) ([]Detail, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, asset *Asset) error {
	query := `
		INSERT INTO assets (
			id, name, category_id, serial_number, purchase_date, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, asset, query,
		asset.ID,
		asset.Name,
		asset.CategoryID,
		asset.SerialNumber,
		asset.PurchaseDate,
		asset.Status,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create asset: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create asset: category: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create asset: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Asset, error) {
	query := `
		SELECT id, name, category_id, serial_number, purchase_date, status,
		       assigned_to_id, assigned_at, image, created_at, updated_at
		FROM assets
		WHERE id = $1`

	var asset Asset
	err := r.db.GetContext(ctx, &asset, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &asset, nil
}

func (r *repository) GetDetail(
	ctx context.Context,
	id string,
) (*Detail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		LEFT JOIN users u ON u.id = a.assigned_to_id
		WHERE a.id = $1`, detailColumns)

	var detail Detail
	err := r.db.GetContext(ctx, &detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get asset detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset detail: %w", err)
	}

	return &detail, nil
}

// GetForUpdate locks the asset row for the duration of the enclosing
// transaction. The approval flow depends on this to serialize competing
// approvals against the same asset.
func (r *repository) GetForUpdate(
	ctx context.Context,
	id string,
) (*Asset, error) {
	query := `
		SELECT id, name, category_id, serial_number, purchase_date, status,
		       assigned_to_id, assigned_at, image, created_at, updated_at
		FROM assets
		WHERE id = $1
		FOR UPDATE`

	var asset Asset
	err := r.db.GetContext(ctx, &asset, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock asset: %w", err)
	}

	return &asset, nil
}

func (r *repository) Update(ctx context.Context, asset *Asset) error {
	query := `
		UPDATE assets
		SET name = $2, category_id = $3, serial_number = $4,
		    purchase_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &asset.UpdatedAt, query,
		asset.ID,
		asset.Name,
		asset.CategoryID,
		asset.SerialNumber,
		asset.PurchaseDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update asset: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update asset: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("update asset: category: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update asset: %w", err)
	}

	return nil
}

// SetStatus forces an asset status. Forcing "available" clears the
// assignment fields in the same statement so the available/unassigned
// invariant holds.
func (r *repository) SetStatus(ctx context.Context, id, status string) error {
	var query string
	if status == StatusAvailable {
		query = `
			UPDATE assets
			SET status = $2, assigned_to_id = NULL, assigned_at = NULL,
			    updated_at = NOW()
			WHERE id = $1`
	} else {
		query = `
			UPDATE assets
			SET status = $2, updated_at = NOW()
			WHERE id = $1`
	}

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set asset status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set asset status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set asset status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Assign(ctx context.Context, id, userID string) error {
	query := `
		UPDATE assets
		SET status = $2, assigned_to_id = $3, assigned_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, StatusAssigned, userID)
	if err != nil {
		return fmt.Errorf("assign asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign asset: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("assign asset: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdateImage(
	ctx context.Context,
	id string,
	image *string,
) error {
	query := `
		UPDATE assets
		SET image = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, image)
	if err != nil {
		return fmt.Errorf("update asset image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update asset image: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update asset image: %w", core.ErrNotFound)
	}

	return nil
}

// Delete cascades to the asset's requests via the schema's foreign key.
func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM assets WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete asset: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListAssetsParams,
) ([]Detail, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(a.name ILIKE $%d OR a.serial_number ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.CategoryID != "" {
		conditions = append(
			conditions,
			fmt.Sprintf("a.category_id = $%d", argIdx),
		)
		args = append(args, params.CategoryID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM assets a WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM assets a
		JOIN categories c ON c.id = a.category_id
		LEFT JOIN users u ON u.id = a.assigned_to_id
		WHERE %s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d`,
		detailColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var details []Detail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}

	return details, total, nil
}
