// AngelaMos | 2026
// service.go

package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/assetdesk/internal/asset"
	"github.com/carterperez-dev/assetdesk/internal/core"
)

var (
	ErrAssetNotAvailable    = errors.New("asset is not available")
	ErrDuplicatePending     = errors.New("pending request for this asset already exists")
	ErrAlreadyProcessed     = errors.New("request has already been processed")
	ErrAssetAlreadyAssigned = errors.New("asset is already assigned to another user")
)

// Service owns the request lifecycle. Approval and rejection run in a single
// transaction with row locks on the request (and, for approvals, the asset),
// so two admins racing on the same asset can never both win.
type Service struct {
	db     *sqlx.DB
	repo   Repository
	assets asset.Repository
}

func NewService(db *sqlx.DB, repo Repository, assets asset.Repository) *Service {
	return &Service{db: db, repo: repo, assets: assets}
}

// Create validates the preconditions in a fixed order: the asset must exist,
// be available, and not already have a pending request from this caller.
func (s *Service) Create(
	ctx context.Context,
	caller Identity,
	req CreateRequestRequest,
) (*Detail, error) {
	if caller.ID == "" {
		return nil, fmt.Errorf("create request: %w", core.ErrUnauthorized)
	}

	a, err := s.assets.GetByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}

	if a.Status != asset.StatusAvailable {
		return nil, fmt.Errorf("%w: %w", ErrAssetNotAvailable, core.ErrConflict)
	}

	pending, err := s.repo.HasPendingForAsset(ctx, req.AssetID, caller.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: %w", ErrDuplicatePending, core.ErrConflict)
	}

	assetRequest := &AssetRequest{
		ID:          uuid.New().String(),
		AssetID:     req.AssetID,
		RequesterID: caller.ID,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, assetRequest); err != nil {
		// Two concurrent creates can both pass the existence check; the
		// partial unique index turns the loser into a duplicate here.
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf(
				"%w: %w",
				ErrDuplicatePending,
				core.ErrConflict,
			)
		}
		return nil, err
	}

	return s.repo.GetDetail(ctx, assetRequest.ID)
}

// Get returns a request. Non-admins can only see their own.
func (s *Service) Get(
	ctx context.Context,
	caller Identity,
	id string,
) (*Detail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && detail.RequesterID != caller.ID {
		return nil, fmt.Errorf("get request: %w", core.ErrForbidden)
	}

	return detail, nil
}

// List returns requests. Non-admins always get only their own, regardless of
// any requester filter the caller passed.
func (s *Service) List(
	ctx context.Context,
	caller Identity,
	params ListRequestsParams,
) ([]Detail, int, error) {
	if !caller.IsAdmin() {
		if caller.ID == "" {
			return nil, 0, fmt.Errorf("list requests: %w", core.ErrUnauthorized)
		}
		params.RequesterID = caller.ID
	}

	return s.repo.List(ctx, params)
}

// Process moves a pending request to approved or rejected. The transition is
// atomic: the request row is locked first, then on approval the asset row.
// If the asset turns out to be assigned already, the whole transaction rolls
// back and the request stays pending.
func (s *Service) Process(
	ctx context.Context,
	caller Identity,
	id, status string,
) (*Detail, error) {
	if caller.ID == "" {
		return nil, fmt.Errorf("process request: %w", core.ErrUnauthorized)
	}

	if status != StatusApproved && status != StatusRejected {
		return nil, fmt.Errorf(
			"invalid target status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		txRepo := NewRepository(tx)

		req, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if req.IsTerminal() {
			return fmt.Errorf("%w: %w", ErrAlreadyProcessed, core.ErrConflict)
		}

		if status == StatusApproved {
			txAssets := asset.NewRepository(tx)

			a, err := txAssets.GetForUpdate(ctx, req.AssetID)
			if err != nil {
				return err
			}

			if a.Status == asset.StatusAssigned {
				return fmt.Errorf(
					"%w: %w",
					ErrAssetAlreadyAssigned,
					core.ErrConflict,
				)
			}

			if err := txAssets.Assign(ctx, req.AssetID, req.RequesterID); err != nil {
				return err
			}
		}

		return txRepo.MarkProcessed(ctx, id, status, caller.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetDetail(ctx, id)
}
