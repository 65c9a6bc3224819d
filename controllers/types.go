package controllers

import (
	"context"
	"time"

	"storefront/models"
	"storefront/services"
)

// Default configuration values
const (
	DefaultCacheTTL = 10 * time.Minute
	DefaultPerPage  = 24
	MaxPerPage      = 100
)

// ProductAPI is the product-service surface the controllers depend on.
type ProductAPI interface {
	Save(ctx context.Context, req services.ProductSaveRequest) (*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	ListActive(ctx context.Context, page, perPage int) ([]*models.Product, int64, error)
	ListArchived(ctx context.Context) ([]*models.Product, error)
}

// LifecycleAPI is the archive/restore/purge surface.
type LifecycleAPI interface {
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Purge(ctx context.Context, id string) error
}

// OrderAPI is the order-service surface.
type OrderAPI interface {
	Create(ctx context.Context, productID, email string) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	MarkProcessed(ctx context.Context, id string) error
}

// ReviewAPI is the review-service surface.
type ReviewAPI interface {
	Submit(ctx context.Context, name string, rating int, text string) (*models.Review, error)
	List(ctx context.Context, limit int) ([]*models.Review, error)
}

// InquiryAPI is the inquiry-service surface.
type InquiryAPI interface {
	Submit(ctx context.Context, name, email, message string) (*models.Inquiry, error)
}
