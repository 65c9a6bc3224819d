package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"storefront/apperrors"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes shared by the service tests ---

type fakeProductRepo struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*models.Product
	deleted   []uuid.UUID
	createErr error
	updateErr error
	deleteErr error
	findCalls int
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id.String())
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindActive(ctx context.Context, limit, skip int) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Product
	for _, p := range f.products {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProductRepo) CountActive(ctx context.Context) (int64, error) {
	products, _ := f.FindActive(ctx, 0, 0)
	return int64(len(products)), nil
}

func (f *fakeProductRepo) FindArchived(ctx context.Context) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Product
	for _, p := range f.products {
		if !p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindArchivedBefore(ctx context.Context, cutoff time.Time) ([]*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Product
	for _, p := range f.products {
		if p.DeletedAt != nil && !p.DeletedAt.After(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id uuid.UUID, set map[string]interface{}, remove []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.products[id]
	if !ok {
		return apperrors.NotFound("product", id.String())
	}
	for k, v := range set {
		switch k {
		case "title":
			p.Title = v.(string)
		case "description":
			p.Description = v.(string)
		case "price_cents":
			p.PriceCents = v.(int64)
		case "inventory":
			p.Inventory = v.(int)
		case "images":
			p.Images = v.([]string)
		case "isActive":
			p.IsActive = v.(bool)
		case "deletedAt":
			t, err := time.Parse(time.RFC3339, v.(string))
			if err != nil {
				return err
			}
			p.DeletedAt = &t
		case "updatedAt":
			t, err := time.Parse(time.RFC3339, v.(string))
			if err != nil {
				return err
			}
			p.UpdatedAt = t
		}
	}
	for _, k := range remove {
		if k == "deletedAt" {
			p.DeletedAt = nil
		}
	}
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.products, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProductRepo) get(id uuid.UUID) *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id]
}

type fakeBlobStore struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
	locator   string
}

func (f *fakeBlobStore) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, filename)
	if f.locator != "" {
		return f.locator, nil
	}
	return "https://storefront.s3.amazonaws.com/product_images/" + filename, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, locator)
	return f.deleteErr
}

type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) ProductsChanged() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func (n *countingNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

func activeProduct(title string, images ...string) *models.Product {
	now := time.Now().UTC().Add(-time.Hour)
	return &models.Product{
		ID:         uuid.New(),
		Title:      title,
		PriceCents: 2500,
		Inventory:  3,
		Images:     images,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func archivedProductAge(title string, age time.Duration, images ...string) *models.Product {
	p := activeProduct(title, images...)
	p.IsActive = false
	deletedAt := time.Now().UTC().Add(-age)
	p.DeletedAt = &deletedAt
	return p
}

// --- Tests ---

func TestArchiveSetsDeletedAtAndClearsActive(t *testing.T) {
	p := activeProduct("Peony bouquet")
	repo := newFakeProductRepo(p)
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)

	require.NoError(t, svc.Archive(context.Background(), p.ID.String()))

	got := repo.get(p.ID)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.DeletedAt)
	// Invariant: isActive == false iff deletedAt set.
	assert.Equal(t, got.DeletedAt == nil, got.IsActive)
}

func TestArchiveNotFound(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)

	err := svc.Archive(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestArchiveThenRestoreRoundTrip(t *testing.T) {
	p := activeProduct("Rose bundle", "https://storefront.s3.amazonaws.com/product_images/a.jpg")
	repo := newFakeProductRepo(p)
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.Archive(ctx, p.ID.String()))
	require.NoError(t, svc.Restore(ctx, p.ID.String()))

	got := repo.get(p.ID)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.DeletedAt)
	// All other fields unchanged.
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.PriceCents, got.PriceCents)
	assert.Equal(t, p.Inventory, got.Inventory)
	assert.Equal(t, p.Images, got.Images)
}

func TestReArchiveResetsRetentionClock(t *testing.T) {
	p := archivedProductAge("Dusty tulips", 6*24*time.Hour)
	repo := newFakeProductRepo(p)
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)

	before := *repo.get(p.ID).DeletedAt
	require.NoError(t, svc.Archive(context.Background(), p.ID.String()))
	after := *repo.get(p.ID).DeletedAt

	assert.True(t, after.After(before), "re-archiving should restamp deletedAt")
}

func TestPurgeDeletesAllBlobsThenRecord(t *testing.T) {
	p := archivedProductAge("Old stock", time.Hour,
		"https://storefront.s3.amazonaws.com/product_images/a.jpg",
		"https://storefront.s3.amazonaws.com/product_images/b.jpg",
		"https://storefront.s3.amazonaws.com/product_images/c.jpg",
	)
	repo := newFakeProductRepo(p)
	blobs := &fakeBlobStore{}
	svc := NewLifecycleService(repo, blobs, nil)

	require.NoError(t, svc.Purge(context.Background(), p.ID.String()))

	assert.Equal(t, p.Images, blobs.deletes, "one delete attempt per image, in order")
	assert.Equal(t, []uuid.UUID{p.ID}, repo.deleted, "exactly one record delete")
	assert.Nil(t, repo.get(p.ID))
}

func TestPurgeSucceedsWhenEveryBlobDeleteFails(t *testing.T) {
	p := archivedProductAge("Broken blobs", time.Hour, "https://x/1.jpg", "https://x/2.jpg")
	repo := newFakeProductRepo(p)
	blobs := &fakeBlobStore{deleteErr: errors.New("object gone")}
	svc := NewLifecycleService(repo, blobs, nil)

	require.NoError(t, svc.Purge(context.Background(), p.ID.String()))

	assert.Len(t, blobs.deletes, 2)
	assert.Nil(t, repo.get(p.ID), "record removed despite blob failures")
}

func TestPurgeFailsWhenRecordDeleteFails(t *testing.T) {
	p := archivedProductAge("Stubborn", time.Hour, "https://x/1.jpg")
	repo := newFakeProductRepo(p)
	repo.deleteErr = errors.New("conditional check failed")
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)

	err := svc.Purge(context.Background(), p.ID.String())
	assert.ErrorIs(t, err, apperrors.ErrStoreWrite)
}

func TestManualPurgeIgnoresRetentionAge(t *testing.T) {
	// Archived a minute ago, nowhere near the 7-day mark.
	p := archivedProductAge("Fresh archive", time.Minute)
	repo := newFakeProductRepo(p)
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)

	require.NoError(t, svc.Purge(context.Background(), p.ID.String()))
	assert.Nil(t, repo.get(p.ID))
}

func TestSweepExpiredBoundary(t *testing.T) {
	day := 24 * time.Hour
	p3 := archivedProductAge("3 days", 3*day)
	p6 := archivedProductAge("6 days", 6*day)
	p7 := archivedProductAge("7 days", 7*day+time.Second)
	p10 := archivedProductAge("10 days", 10*day)
	repo := newFakeProductRepo(p3, p6, p7, p10)
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil)

	purged, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, purged)
	assert.NotNil(t, repo.get(p3.ID))
	assert.NotNil(t, repo.get(p6.ID))
	assert.Nil(t, repo.get(p7.ID))
	assert.Nil(t, repo.get(p10.ID))
}

func TestSweepExactBoundaryIsInclusive(t *testing.T) {
	p := archivedProductAge("Exactly 7 days", 7*24*time.Hour)
	frozen := time.Now().UTC()
	deletedAt := frozen.Add(-7 * 24 * time.Hour)
	p.DeletedAt = &deletedAt
	repo := newFakeProductRepo(p)
	svc := NewLifecycleService(repo, &fakeBlobStore{}, nil).WithClock(func() time.Time { return frozen })

	purged, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

func TestSweepContinuesPastFailingCandidate(t *testing.T) {
	day := 24 * time.Hour
	bad := archivedProductAge("Bad", 9*day)
	good := archivedProductAge("Good", 8*day)

	repo := newFakeProductRepo(bad, good)
	failing := &flakyDeleteRepo{fakeProductRepo: repo, failID: bad.ID}
	svc := NewLifecycleService(failing, &fakeBlobStore{}, nil)

	purged, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, purged)
	assert.NotNil(t, repo.get(bad.ID), "failed candidate stays put")
	assert.Nil(t, repo.get(good.ID), "later candidate still purged")
}

// flakyDeleteRepo fails record deletion for one specific product.
type flakyDeleteRepo struct {
	*fakeProductRepo
	failID uuid.UUID
}

func (f *flakyDeleteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if id == f.failID {
		return errors.New("provisioned throughput exceeded")
	}
	return f.fakeProductRepo.Delete(ctx, id)
}

func TestLifecycleNotifiesAfterMutations(t *testing.T) {
	p := activeProduct("Notify me")
	repo := newFakeProductRepo(p)
	n := &countingNotifier{}
	svc := NewLifecycleService(repo, &fakeBlobStore{}, n)
	ctx := context.Background()

	require.NoError(t, svc.Archive(ctx, p.ID.String()))
	require.NoError(t, svc.Restore(ctx, p.ID.String()))
	require.NoError(t, svc.Archive(ctx, p.ID.String()))
	require.NoError(t, svc.Purge(ctx, p.ID.String()))

	assert.Equal(t, 4, n.calls())
}
