// AngelaMos | 2026
// dto.go

package asset

import (
	"time"
)

type CreateAssetRequest struct {
	Name         string    `json:"name"          validate:"required,min=1,max=200"`
	CategoryID   string    `json:"category_id"   validate:"required,uuid4"`
	SerialNumber string    `json:"serial_number" validate:"required,min=1,max=100"`
	PurchaseDate time.Time `json:"purchase_date" validate:"required"`
}

type UpdateAssetRequest struct {
	Name         *string    `json:"name,omitempty"          validate:"omitempty,min=1,max=200"`
	CategoryID   *string    `json:"category_id,omitempty"   validate:"omitempty,uuid4"`
	SerialNumber *string    `json:"serial_number,omitempty" validate:"omitempty,min=1,max=100"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
}

// UpdateAssetStatusRequest forces an asset's status. "assigned" is absent on
// purpose: assignment only happens through request approval.
type UpdateAssetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available maintenance retired"`
}

type AssigneeSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AssetResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	CategoryID   string           `json:"category_id"`
	CategoryName string           `json:"category_name,omitempty"`
	SerialNumber string           `json:"serial_number"`
	PurchaseDate time.Time        `json:"purchase_date"`
	Status       string           `json:"status"`
	AssignedTo   *AssigneeSummary `json:"assigned_to,omitempty"`
	AssignedAt   *time.Time       `json:"assigned_at,omitempty"`
	Image        *string          `json:"image,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type ListAssetsParams struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	Search     string `json:"search"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
}

func (p *ListAssetsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListAssetsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToAssetResponse(d *Detail) AssetResponse {
	resp := AssetResponse{
		ID:           d.ID,
		Name:         d.Name,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		SerialNumber: d.SerialNumber,
		PurchaseDate: d.PurchaseDate,
		Status:       d.Status,
		AssignedAt:   d.AssignedAt,
		Image:        d.Image,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}

	if d.AssignedToID != nil {
		summary := &AssigneeSummary{ID: *d.AssignedToID}
		if d.AssigneeName != nil {
			summary.Name = *d.AssigneeName
		}
		if d.AssigneeEmail != nil {
			summary.Email = *d.AssigneeEmail
		}
		resp.AssignedTo = summary
	}

	return resp
}

func ToAssetResponseList(details []Detail) []AssetResponse {
	responses := make([]AssetResponse, 0, len(details))
	for _, d := range details {
		responses = append(responses, ToAssetResponse(&d))
	}
	return responses
}
