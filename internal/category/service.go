// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/assetdesk/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	category := &Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Status:      StatusActive,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf(
				"category name already in use: %w",
				core.ErrConflict,
			)
		}
		return nil, err
	}

	return category, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateCategoryRequest,
) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Status != nil {
		category.Status = *req.Status
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf(
				"category name already in use: %w",
				core.ErrConflict,
			)
		}
		return nil, err
	}

	return category, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return fmt.Errorf(
				"category has assets and cannot be deleted: %w",
				core.ErrConflict,
			)
		}
		return err
	}
	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListCategoriesParams,
) ([]Category, int, error) {
	return s.repo.List(ctx, params)
}
