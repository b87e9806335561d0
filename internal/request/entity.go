// AngelaMos | 2026
// entity.go

package request

import (
	"time"
)

// AssetRequest is a user's claim on an asset. It starts pending and moves
// exactly once to approved or rejected; both are terminal.
type AssetRequest struct {
	ID            string     `db:"id"`
	AssetID       string     `db:"asset_id"`
	RequesterID   string     `db:"requester_id"`
	Status        string     `db:"status"`
	RequestedAt   time.Time  `db:"requested_at"`
	ProcessedAt   *time.Time `db:"processed_at"`
	ProcessedByID *string    `db:"processed_by_id"`
}

func (r *AssetRequest) IsPending() bool {
	return r.Status == StatusPending
}

func (r *AssetRequest) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}

// Detail is the joined read shape for API responses.
type Detail struct {
	AssetRequest
	AssetName      string  `db:"asset_name"`
	AssetSerial    string  `db:"asset_serial"`
	RequesterName  string  `db:"requester_name"`
	RequesterEmail string  `db:"requester_email"`
	ProcessorName  *string `db:"processor_name"`
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Identity is the caller's resolved identity, produced once at the HTTP
// boundary and passed by value into the engine.
type Identity struct {
	ID   string
	Role string
}

func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}
