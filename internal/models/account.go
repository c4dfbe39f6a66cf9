package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank or cash account. The core only needs the balance,
// currency and identity; everything else about accounts is owned by the
// surrounding application.
type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Investment is an investment position valued at its current market value.
type Investment struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Currency     string          `json:"currency"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
