package entity

import "github.com/shopspring/decimal"

// Balance is the canonical per-currency balance. Reserved is Total minus
// Available and is never negative.
type Balance struct {
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
	Pending   decimal.Decimal `json:"pending"`
}
