package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"storefront/apperrors"
	"storefront/imageprep"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService implements the validated product upsert and the catalog
// read paths.
type ProductService struct {
	products repository.ProductRepo
	blobs    BlobStore
	notifier ChangeNotifier
	imgOpts  imageprep.Options
	now      func() time.Time
}

func NewProductService(products repository.ProductRepo, blobs BlobStore, notifier ChangeNotifier) *ProductService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ProductService{
		products: products,
		blobs:    blobs,
		notifier: notifier,
		imgOpts:  imageprep.DefaultOptions(),
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *ProductService) WithClock(now func() time.Time) *ProductService {
	s.now = now
	return s
}

// Save creates or updates a product. Validation happens before any store or
// blob call. When an image is supplied it is prepared and uploaded first; an
// upload failure aborts the save so the record never references a missing
// blob.
func (s *ProductService) Save(ctx context.Context, req ProductSaveRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.Validation("title must not be empty")
	}
	if req.PriceCents < 0 {
		return nil, apperrors.Validation("price must not be negative")
	}
	if req.Inventory < 0 {
		return nil, apperrors.Validation("inventory must not be negative")
	}

	var images []string
	if len(req.ImageData) > 0 {
		locator, err := s.uploadImage(ctx, req)
		if err != nil {
			return nil, err
		}
		images = []string{locator}
	}

	if req.ID == nil {
		return s.create(ctx, req, images)
	}
	return s.update(ctx, *req.ID, req, images)
}

// Get returns a single product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, apperrors.NotFound("product", id)
	}
	return s.products.FindByID(ctx, pid)
}

// ListActive returns active products, newest first, with a total count for
// pagination.
func (s *ProductService) ListActive(ctx context.Context, page, perPage int) ([]*models.Product, int64, error) {
	skip := (page - 1) * perPage
	products, err := s.products.FindActive(ctx, perPage, skip)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListArchived returns archived products, most recently archived first.
func (s *ProductService) ListArchived(ctx context.Context) ([]*models.Product, error) {
	return s.products.FindArchived(ctx)
}

func (s *ProductService) create(ctx context.Context, req ProductSaveRequest, images []string) (*models.Product, error) {
	now := s.now().UTC()
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	product := &models.Product{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Inventory:   req.Inventory,
		Images:      images,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.StoreWrite("create", err)
	}
	zap.L().Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("title", product.Title),
	)
	s.notifier.ProductsChanged()
	return product, nil
}

func (s *ProductService) update(ctx context.Context, id uuid.UUID, req ProductSaveRequest, images []string) (*models.Product, error) {
	set := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"price_cents": req.PriceCents,
		"inventory":   req.Inventory,
		"updatedAt":   s.now().UTC().Format(time.RFC3339),
	}
	if len(images) > 0 {
		set["images"] = images
	}
	// isActive is preserved unless the caller overrides it explicitly.
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if err := s.products.Update(ctx, id, set, nil); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.StoreWrite("update", err)
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	zap.L().Info("Product updated", zap.String("product_id", id.String()))
	s.notifier.ProductsChanged()
	return product, nil
}

func (s *ProductService) uploadImage(ctx context.Context, req ProductSaveRequest) (string, error) {
	data := req.ImageData
	contentType := req.ImageType
	filename := req.ImageName

	// Prepare never fails the save; it hands back the original bytes when
	// it cannot do better, and the smaller payload wins.
	prepared := imageprep.Prepare(data, s.imgOpts)
	if len(prepared) < len(data) {
		data = prepared
		contentType = "image/jpeg"
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}

	locator, err := s.blobs.Upload(ctx, filename, contentType, data)
	if err != nil {
		return "", apperrors.Blob("upload", err)
	}
	return locator, nil
}

func parseID(id string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(id))
}
