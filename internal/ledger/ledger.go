package ledger

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount occurs when a monetary value is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds occurs when the account balance cannot cover a
	// requested withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPerWithdrawalCapExceeded indicates a single withdrawal above the
	// account's per-operation cap.
	ErrPerWithdrawalCapExceeded = errors.New("per-withdrawal cap exceeded")

	// ErrDailyLimitExceeded indicates the account already reached its daily
	// number of withdrawals.
	ErrDailyLimitExceeded = errors.New("daily withdrawal limit exceeded")

	// ErrDepositCeilingExceeded indicates a deposit would push the balance
	// above the configured ceiling.
	ErrDepositCeilingExceeded = errors.New("deposit ceiling exceeded")
)

// Kind names a transaction variant.
type Kind string

const (
	KindDeposit    Kind = "Deposit"
	KindWithdrawal Kind = "Withdrawal"
)

// String returns the variant name.
func (k Kind) String() string { return string(k) }

// Matches reports whether name refers to this kind, ignoring case.
func (k Kind) Matches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), string(k))
}

// Mover is the capability a transaction needs from an account: the rule set
// that owns balance mutation.
type Mover interface {
	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
}
