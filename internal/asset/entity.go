// AngelaMos | 2026
// entity.go

package asset

import (
	"time"
)

type Asset struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	CategoryID   string     `db:"category_id"`
	SerialNumber string     `db:"serial_number"`
	PurchaseDate time.Time  `db:"purchase_date"`
	Status       string     `db:"status"`
	AssignedToID *string    `db:"assigned_to_id"`
	AssignedAt   *time.Time `db:"assigned_at"`
	Image        *string    `db:"image"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// Detail is the joined read shape: the asset plus the names the API nests
// in its responses.
type Detail struct {
	Asset
	CategoryName  string  `db:"category_name"`
	AssigneeName  *string `db:"assignee_name"`
	AssigneeEmail *string `db:"assignee_email"`
}

func (a *Asset) IsAvailable() bool {
	return a.Status == StatusAvailable
}

func (a *Asset) IsAssigned() bool {
	return a.Status == StatusAssigned
}

const (
	StatusAvailable   = "available"
	StatusAssigned    = "assigned"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}
