package models

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a contact-form submission.
type Inquiry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
