package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. There is no state machine beyond new -> processed;
// re-marking a processed order only re-stamps processedAt.
const (
	OrderStatusNew       = "new"
	OrderStatusProcessed = "processed"
)

// Order is a customer order request. ProductID is a plain reference; the
// store enforces no referential integrity, so it may point at a product
// that has since been purged.
type Order struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   string     `json:"productId"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}
