package services

import (
	"context"
	"strings"
	"time"

	"storefront/apperrors"
	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
)

// DefaultReviewLimit is how many reviews the public listing shows.
const DefaultReviewLimit = 6

// ReviewService handles review submission and the public listing.
type ReviewService struct {
	reviews repository.ReviewRepo
	now     func() time.Time
}

func NewReviewService(reviews repository.ReviewRepo) *ReviewService {
	return &ReviewService{reviews: reviews, now: time.Now}
}

// Submit stores a review. Submissions are auto-approved; the flag exists so
// operators can hide a review directly in the store dashboard.
func (s *ReviewService) Submit(ctx context.Context, name string, rating int, text string) (*models.Review, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" {
		return nil, apperrors.Validation("name must not be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	if text == "" {
		return nil, apperrors.Validation("review text must not be empty")
	}

	review := &models.Review{
		ID:        uuid.New(),
		Name:      name,
		Rating:    rating,
		Text:      text,
		Approved:  true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.StoreWrite("create", err)
	}
	return review, nil
}

// List returns approved reviews, newest first. limit <= 0 uses the default.
func (s *ReviewService) List(ctx context.Context, limit int) ([]*models.Review, error) {
	if limit <= 0 {
		limit = DefaultReviewLimit
	}
	return s.reviews.FindApproved(ctx, limit)
}
