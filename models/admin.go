package models

import "time"

// Admin marks an identity as an administrator. The item's existence in the
// admins table is the membership test; ID is the identity provider's stable
// subject id.
type Admin struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
