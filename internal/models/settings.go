package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultCurrency = "ل.س"

// SupportedCurrencies are display labels only; no conversion is performed.
var SupportedCurrencies = []string{"ل.س", "$", "€"}

func IsSupportedCurrency(label string) bool {
	for _, c := range SupportedCurrencies {
		if c == label {
			return true
		}
	}
	return false
}

type Settings struct {
	TenantID       uuid.UUID  `json:"-" db:"tenant_id"`
	Currency       string     `json:"currency" db:"currency"`
	ProfitsResetAt *time.Time `json:"profits_reset_at,omitempty" db:"profits_reset_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// DefaultSettings is what a tenant sees before saving anything.
func DefaultSettings(tenantID uuid.UUID) *Settings {
	return &Settings{TenantID: tenantID, Currency: DefaultCurrency}
}
