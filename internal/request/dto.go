// AngelaMos | 2026
// dto.go

package request

import (
	"time"
)

type CreateRequestRequest struct {
	AssetID string `json:"asset_id" validate:"required,uuid4"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type AssetSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type RequestResponse struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	RequestedAt time.Time    `json:"requested_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
	Asset       AssetSummary `json:"asset"`
	Requester   UserSummary  `json:"requester"`
	ProcessedBy *UserSummary `json:"processed_by,omitempty"`
}

type ListRequestsParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Status   string `json:"status"`

	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`

	// RequesterID scopes the result set to a single requester. The service
	// forces it to the caller's own ID for non-admins.
	RequesterID string `json:"requester_id"`
}

func (p *ListRequestsParams) Normalize() {
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

func (p *ListRequestsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToRequestResponse(d *Detail) RequestResponse {
	resp := RequestResponse{
		ID:          d.ID,
		Status:      d.Status,
		RequestedAt: d.RequestedAt,
		ProcessedAt: d.ProcessedAt,
		Asset: AssetSummary{
			ID:           d.AssetID,
			Name:         d.AssetName,
			SerialNumber: d.AssetSerial,
		},
		Requester: UserSummary{
			ID:    d.RequesterID,
			Name:  d.RequesterName,
			Email: d.RequesterEmail,
		},
	}

	if d.ProcessedByID != nil {
		summary := &UserSummary{ID: *d.ProcessedByID}
		if d.ProcessorName != nil {
			summary.Name = *d.ProcessorName
		}
		resp.ProcessedBy = summary
	}

	return resp
}

func ToRequestResponseList(details []Detail) []RequestResponse {
	responses := make([]RequestResponse, 0, len(details))
	for _, d := range details {
		responses = append(responses, ToRequestResponse(&d))
	}
	return responses
}
