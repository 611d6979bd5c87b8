package normalize

import (
	"errors"
	"sort"
	"strings"

	"github.com/milkeg/CryptoBot/entity"
	"github.com/shopspring/decimal"
)

var balanceTolerance = decimal.New(1, -8)

// RawBalance is one currency as reported by an exchange. Reserved and
// Pending are optional: a nil Reserved is derived as Total - Available.
type RawBalance struct {
	Currency  string
	Total     decimal.Decimal
	Available decimal.Decimal
	Reserved  *decimal.Decimal
	Pending   *decimal.Decimal
}

// Balances maps raw balances to canonical ones sorted by currency. Reserved
// is never negative in the output. A negative derived reserved larger than
// the tolerance is reported as an InconsistentBalanceError; the joined
// error comes back together with the complete slice.
func Balances(exchange string, raw []RawBalance) ([]entity.Balance, error) {
	out := make([]entity.Balance, 0, len(raw))
	var errs []error

	for _, r := range raw {
		reserved := r.Total.Sub(r.Available)
		if r.Reserved != nil {
			reserved = *r.Reserved
		}

		if reserved.IsNegative() {
			if reserved.Abs().GreaterThan(balanceTolerance) {
				errs = append(errs, &entity.InconsistentBalanceError{
					Exchange:  exchange,
					Currency:  strings.ToUpper(r.Currency),
					Total:     r.Total,
					Available: r.Available,
					Reserved:  reserved,
				})
			}
			reserved = decimal.Zero
		}

		pending := decimal.Zero
		if r.Pending != nil {
			pending = *r.Pending
		}

		out = append(out, entity.Balance{
			Currency:  strings.ToUpper(r.Currency),
			Total:     r.Total,
			Available: r.Available,
			Reserved:  reserved,
			Pending:   pending,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Currency < out[j].Currency
	})

	return out, errors.Join(errs...)
}
