package repository

import (
	"context"
	"time"

	"storefront/models"

	"github.com/google/uuid"
)

// ProductRepo defines the record-store operations for products.
// Interfaces use plain Go types so adapters can be swapped and faked.
type ProductRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindActive returns active products, newest first.
	FindActive(ctx context.Context, limit, skip int) ([]*models.Product, error)
	CountActive(ctx context.Context) (int64, error)
	// FindArchived returns archived products, most recently archived first.
	FindArchived(ctx context.Context) ([]*models.Product, error)
	// FindArchivedBefore returns products archived at or before cutoff.
	FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update applies field-level changes: set assigns attributes, remove
	// drops them. Returns a not-found error when the record is absent.
	Update(ctx context.Context, id uuid.UUID, set map[string]interface{}, remove []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepo defines the record-store operations for orders.
type OrderRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindAll returns orders, newest first.
	FindAll(ctx context.Context) ([]*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id uuid.UUID, set map[string]interface{}) error
}

// ReviewRepo defines the record-store operations for reviews.
type ReviewRepo interface {
	// FindApproved returns approved reviews, newest first, at most limit.
	FindApproved(ctx context.Context, limit int) ([]*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
}

// InquiryRepo defines the record-store operations for contact inquiries.
type InquiryRepo interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
}

// AdminRepo checks admin membership by identity subject id.
type AdminRepo interface {
	IsAdmin(ctx context.Context, identityID string) (bool, error)
}
