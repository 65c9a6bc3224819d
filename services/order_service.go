package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"storefront/apperrors"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OrderService handles customer order requests and the admin processing
// transition.
type OrderService struct {
	orders    repository.OrderRepo
	publisher EventPublisher
	now       func() time.Time
}

func NewOrderService(orders repository.OrderRepo, publisher EventPublisher) *OrderService {
	return &OrderService{orders: orders, publisher: publisher, now: time.Now}
}

// WithClock overrides the service clock. Test hook.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Create records a new order request with status "new". The shop is
// notified via the event topic; a publish failure is logged and never fails
// the order.
func (s *OrderService) Create(ctx context.Context, productID, email string) (*models.Order, error) {
	productID = strings.TrimSpace(productID)
	email = strings.TrimSpace(email)
	if productID == "" {
		return nil, apperrors.Validation("productId must not be empty")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.Validation("a valid email address is required")
	}

	order := &models.Order{
		ID:        uuid.New(),
		ProductID: productID,
		Email:     email,
		Status:    models.OrderStatusNew,
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.StoreWrite("create", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "order.created", map[string]interface{}{
			"order_id":   order.ID.String(),
			"product_id": order.ProductID,
			"email":      order.Email,
		}); err != nil {
			zap.L().Warn("Failed to publish order notification",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}

	zap.L().Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("product_id", order.ProductID),
	)
	return order, nil
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	return s.orders.FindAll(ctx)
}

// MarkProcessed stamps an order processed. There is no guard on the current
// status: re-marking a processed order just re-stamps processedAt.
func (s *OrderService) MarkProcessed(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return apperrors.NotFound("order", id)
	}
	set := map[string]interface{}{
		"status":      models.OrderStatusProcessed,
		"processedAt": s.now().UTC().Format(time.RFC3339),
	}
	if err := s.orders.Update(ctx, oid, set); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.StoreWrite("update", err)
	}
	zap.L().Info("Order marked processed", zap.String("order_id", id))
	return nil
}
