// AngelaMos | 2026
// service.go

package asset

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/carterperez-dev/assetdesk/internal/core"
	"github.com/carterperez-dev/assetdesk/internal/media"
)

type Service struct {
	repo  Repository
	media *media.Store
}

func NewService(repo Repository, mediaStore *media.Store) *Service {
	return &Service{repo: repo, media: mediaStore}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateAssetRequest,
) (*Detail, error) {
	asset := &Asset{
		ID:           uuid.New().String(),
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		SerialNumber: req.SerialNumber,
		PurchaseDate: req.PurchaseDate,
		Status:       StatusAvailable,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf(
				"serial number already in use: %w",
				core.ErrConflict,
			)
		}
		return nil, err
	}

	return s.repo.GetDetail(ctx, asset.ID)
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateAssetRequest,
) (*Detail, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.CategoryID != nil {
		asset.CategoryID = *req.CategoryID
	}
	if req.SerialNumber != nil {
		asset.SerialNumber = *req.SerialNumber
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = *req.PurchaseDate
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf(
				"serial number already in use: %w",
				core.ErrConflict,
			)
		}
		return nil, err
	}

	return s.repo.GetDetail(ctx, id)
}

// ForceStatus sets an asset's status directly. Assignment happens only
// through request approval, so "assigned" is rejected here; forcing
// "available" clears the assignment fields.
func (s *Service) ForceStatus(
	ctx context.Context,
	id, status string,
) (*Detail, error) {
	if !ValidStatus(status) || status == StatusAssigned {
		return nil, fmt.Errorf(
			"invalid target status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.repo.GetDetail(ctx, id)
}

func (s *Service) UploadImage(
	ctx context.Context,
	id string,
	file multipart.File,
	header *multipart.FileHeader,
) (*Detail, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.media.Save(file, header, "asset")
	if err != nil {
		return nil, fmt.Errorf("save asset image: %w", err)
	}

	if err := s.repo.UpdateImage(ctx, id, &name); err != nil {
		//nolint:errcheck // best-effort cleanup of the orphaned file
		_ = s.media.Remove(name)
		return nil, err
	}

	if asset.Image != nil {
		//nolint:errcheck // stale file cleanup is non-critical
		_ = s.media.Remove(*asset.Image)
	}

	return s.repo.GetDetail(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if asset.Image != nil {
		//nolint:errcheck // stale file cleanup is non-critical
		_ = s.media.Remove(*asset.Image)
	}

	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListAssetsParams,
) ([]Detail, int, error) {
	return s.repo.List(ctx, params)
}
