package services

import (
	"context"
	"errors"
	"time"

	"storefront/apperrors"
	"storefront/models"
	"storefront/repository"

	"go.uber.org/zap"
)

// ArchiveRetention is how long an archived product is kept before the
// scheduled sweep may purge it. The admin dashboard derives its
// "days remaining" display from the same constant.
const ArchiveRetention = 7 * 24 * time.Hour

// LifecycleService runs the archive -> restore / purge workflow for
// products. Purge is split into best-effort cleanup of blobs followed by the
// authoritative record delete: the record is the source of truth for product
// existence, so a stray blob is acceptable garbage while a stray record
// pointing at deleted images is not.
type LifecycleService struct {
	products  repository.ProductRepo
	blobs     BlobStore
	notifier  ChangeNotifier
	retention time.Duration
	now       func() time.Time
}

func NewLifecycleService(products repository.ProductRepo, blobs BlobStore, notifier ChangeNotifier) *LifecycleService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &LifecycleService{
		products:  products,
		blobs:     blobs,
		notifier:  notifier,
		retention: ArchiveRetention,
		now:       time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *LifecycleService) WithClock(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// Archive soft-deletes a product: deletedAt is stamped and isActive
// cleared. Archiving an already-archived product restamps deletedAt, which
// resets its retention clock.
func (s *LifecycleService) Archive(ctx context.Context, id string) error {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	set := map[string]interface{}{
		"deletedAt": s.now().UTC().Format(time.RFC3339),
		"isActive":  false,
	}
	if err := s.products.Update(ctx, p.ID, set, nil); err != nil {
		return s.writeErr("archive", err)
	}
	zap.L().Info("Product archived", zap.String("product_id", id))
	s.notifier.ProductsChanged()
	return nil
}

// Restore returns an archived product to the active state. The deletedAt
// attribute is removed, not zeroed; all other fields are untouched.
func (s *LifecycleService) Restore(ctx context.Context, id string) error {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	set := map[string]interface{}{"isActive": true}
	if err := s.products.Update(ctx, p.ID, set, []string{"deletedAt"}); err != nil {
		return s.writeErr("restore", err)
	}
	zap.L().Info("Product restored", zap.String("product_id", id))
	s.notifier.ProductsChanged()
	return nil
}

// Purge permanently deletes a product and its blobs. This is the manual,
// operator-confirmed path: it does not enforce the retention age. Blob
// deletions are best-effort per entry; the operation fails only if the
// record delete fails.
func (s *LifecycleService) Purge(ctx context.Context, id string) error {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.purgeProduct(ctx, p); err != nil {
		return err
	}
	s.notifier.ProductsChanged()
	return nil
}

// SweepExpired purges every product archived at least the retention period
// ago (boundary inclusive). Candidates are independent units of work: a
// failing candidate is logged and the sweep moves on. Returns the number of
// products purged.
func (s *LifecycleService) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	candidates, err := s.products.FindArchivedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	zap.L().Info("Purge sweep starting", zap.Int("candidates", len(candidates)))

	purged := 0
	for _, p := range candidates {
		if err := s.purgeProduct(ctx, p); err != nil {
			zap.L().Error("Failed to purge archived product",
				zap.String("product_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		purged++
	}
	if purged > 0 {
		s.notifier.ProductsChanged()
	}
	return purged, nil
}

func (s *LifecycleService) purgeProduct(ctx context.Context, p *models.Product) error {
	for _, locator := range p.Images {
		if err := s.blobs.Delete(ctx, locator); err != nil {
			// A missing or undeletable blob must not block record removal.
			zap.L().Warn("Failed to delete product image blob",
				zap.String("product_id", p.ID.String()),
				zap.String("locator", locator),
				zap.Error(err),
			)
		}
	}
	if err := s.products.Delete(ctx, p.ID); err != nil {
		return apperrors.StoreWrite("delete", err)
	}
	zap.L().Info("Product purged",
		zap.String("product_id", p.ID.String()),
		zap.Int("images", len(p.Images)),
	)
	return nil
}

func (s *LifecycleService) findProduct(ctx context.Context, id string) (*models.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, apperrors.NotFound("product", id)
	}
	return s.products.FindByID(ctx, pid)
}

func (s *LifecycleService) writeErr(op string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return apperrors.StoreWrite(op, err)
}
