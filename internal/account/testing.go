package account

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that sets the balance directly, bypassing the
// deposit rules and the history.
func SeedBalance(a *Account, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance = amount
}
