// AngelaMos | 2026
// entity.go

package category

import (
	"time"
)

type Category struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (c *Category) IsActive() bool {
	return c.Status == StatusActive
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
