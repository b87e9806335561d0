// AngelaMos | 2026
// repository.go

package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/assetdesk/internal/core"
)

const detailColumns = `
	ar.id, ar.asset_id, ar.requester_id, ar.status,
	ar.requested_at, ar.processed_at, ar.processed_by_id,
	a.name AS asset_name,
	a.serial_number AS asset_serial,
	req.first_name || ' ' || req.last_name AS requester_name,
	req.email AS requester_email,
	CASE WHEN proc.id IS NULL THEN NULL
	     ELSE proc.first_name || ' ' || proc.last_name END AS processor_name`

const detailJoins = `
	FROM asset_requests ar
	JOIN assets a ON a.id = ar.asset_id
	JOIN users req ON req.id = ar.requester_id
	LEFT JOIN users proc ON proc.id = ar.processed_by_id`

type Repository interface {
	Create(ctx context.Context, req *AssetRequest) error
	GetByID(ctx context.Context, id string) (*AssetRequest, error)
	GetDetail(ctx context.Context, id string) (*Detail, error)
	GetForUpdate(ctx context.Context, id string) (*AssetRequest, error)
	HasPendingForAsset(ctx context.Context, assetID, requesterID string) (bool, error)
	MarkProcessed(ctx context.Context, id, status, processedByID string) error
	List(ctx context.Context, params ListRequestsParams) ([]Detail, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *AssetRequest) error {
	query := `
		INSERT INTO asset_requests (id, asset_id, requester_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING requested_at`

	err := r.db.GetContext(ctx, &req.RequestedAt, query,
		req.ID,
		req.AssetID,
		req.RequesterID,
		req.Status,
	)
	if err != nil {
		// The partial unique index on (asset_id, requester_id) for pending
		// rows closes the race the existence check can't.
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create request: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("create request: asset: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create request: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*AssetRequest, error) {
	query := `
		SELECT id, asset_id, requester_id, status,
		       requested_at, processed_at, processed_by_id
		FROM asset_requests
		WHERE id = $1`

	var req AssetRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	return &req, nil
}

func (r *repository) GetDetail(
	ctx context.Context,
	id string,
) (*Detail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE ar.id = $1`, detailColumns, detailJoins)

	var detail Detail
	err := r.db.GetContext(ctx, &detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get request detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request detail: %w", err)
	}

	return &detail, nil
}

// GetForUpdate locks the request row for the duration of the enclosing
// transaction. Approval and rejection both take this lock first so a request
// can only ever be processed once.
func (r *repository) GetForUpdate(
	ctx context.Context,
	id string,
) (*AssetRequest, error) {
	query := `
		SELECT id, asset_id, requester_id, status,
		       requested_at, processed_at, processed_by_id
		FROM asset_requests
		WHERE id = $1
		FOR UPDATE`

	var req AssetRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock request: %w", err)
	}

	return &req, nil
}

func (r *repository) HasPendingForAsset(
	ctx context.Context,
	assetID, requesterID string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM asset_requests
			WHERE asset_id = $1 AND requester_id = $2 AND status = $3
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, assetID, requesterID, StatusPending)
	if err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}

	return exists, nil
}

func (r *repository) MarkProcessed(
	ctx context.Context,
	id, status, processedByID string,
) error {
	query := `
		UPDATE asset_requests
		SET status = $2, processed_at = NOW(), processed_by_id = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, processedByID)
	if err != nil {
		return fmt.Errorf("mark request processed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark request processed: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark request processed: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListRequestsParams,
) ([]Detail, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.RequesterID != "" {
		conditions = append(
			conditions,
			fmt.Sprintf("ar.requester_id = $%d", argIdx),
		)
		args = append(args, params.RequesterID)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(a.name ILIKE $%d OR a.serial_number ILIKE $%d
			  OR req.email ILIKE $%d
			  OR req.first_name ILIKE $%d OR req.last_name ILIKE $%d)`,
			argIdx, argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("ar.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.From != nil {
		conditions = append(
			conditions,
			fmt.Sprintf("ar.requested_at >= $%d", argIdx),
		)
		args = append(args, *params.From)
		argIdx++
	}

	if params.To != nil {
		conditions = append(
			conditions,
			fmt.Sprintf("ar.requested_at <= $%d", argIdx),
		)
		args = append(args, *params.To)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		%s
		WHERE %s`, detailJoins, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY ar.requested_at DESC
		LIMIT $%d OFFSET $%d`,
		detailColumns, detailJoins, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var details []Detail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}

	return details, total, nil
}
