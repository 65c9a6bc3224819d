package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer review. Submissions are auto-approved; the approved
// flag exists so a moderator can hide a review from the dashboard.
type Review struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}
