package models

import (
	"time"

	"github.com/google/uuid"
)

// ManagerCodeLength is the length of the public tenant handle.
const ManagerCodeLength = 7

// FreeProductLimit caps the catalog of tenants without a pro subscription.
const FreeProductLimit = 25

// Tenant is a store account. ID never changes; Code is the rotatable public
// alias handed to the manager.
type Tenant struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Code           string    `json:"manager_code" db:"code"`
	IsPro          bool      `json:"is_pro" db:"is_pro"`
	ActivationCode *string   `json:"activation_code_used,omitempty" db:"activation_code"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
