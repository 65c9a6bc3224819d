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

// InquiryService stores contact-form submissions.
type InquiryService struct {
	inquiries repository.InquiryRepo
	now       func() time.Time
}

func NewInquiryService(inquiries repository.InquiryRepo) *InquiryService {
	return &InquiryService{inquiries: inquiries, now: time.Now}
}

// Submit validates and stores a contact inquiry. Name is optional.
func (s *InquiryService) Submit(ctx context.Context, name, email, message string) (*models.Inquiry, error) {
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if !emailPattern.MatchString(email) {
		return nil, apperrors.Validation("a valid email address is required")
	}
	if message == "" {
		return nil, apperrors.Validation("message must not be empty")
	}

	inquiry := &models.Inquiry{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, apperrors.StoreWrite("create", err)
	}
	return inquiry, nil
}
