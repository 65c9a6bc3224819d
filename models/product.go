package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. Attribute names (price_cents, isActive,
// deletedAt, ...) are shared with external dashboards and the scheduled
// purge job and must not change.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	Inventory   int        `json:"inventory"`
	Images      []string   `json:"images"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// Archived reports whether the product is in the soft-deleted state.
func (p *Product) Archived() bool {
	return p.DeletedAt != nil
}

// PurgeEligibleAt returns the instant the product becomes eligible for the
// scheduled purge. Zero time if the product is not archived.
func (p *Product) PurgeEligibleAt(retention time.Duration) time.Time {
	if p.DeletedAt == nil {
		return time.Time{}
	}
	return p.DeletedAt.Add(retention)
}
