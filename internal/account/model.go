package account

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultBranch is the branch code shared by every account.
const DefaultBranch = "0001"

// ErrInvalidLimits indicates malformed account-opening parameters.
var ErrInvalidLimits = errors.New("invalid account limits")

// Kind tags the account variant.
type Kind string

const (
	KindStandard          Kind = "StandardAccount"
	KindLimitedWithdrawal Kind = "LimitedWithdrawalAccount"
)

// Owner is the party an account is bound to at creation.
type Owner interface {
	OwnerName() string
	OwnerID() string
}

// Limits carries the withdrawal restrictions of a LimitedWithdrawalAccount.
type Limits struct {
	PerWithdrawalCap decimal.Decimal `json:"per_withdrawal_cap"`
	DailyWithdrawals int             `json:"daily_withdrawal_limit"`
}

// Validate checks both limits are positive.
func (l Limits) Validate() error {
	if !l.PerWithdrawalCap.IsPositive() {
		return fmt.Errorf("%w: per-withdrawal cap must be positive, got %s", ErrInvalidLimits, l.PerWithdrawalCap)
	}
	if l.DailyWithdrawals <= 0 {
		return fmt.Errorf("%w: daily withdrawal limit must be positive, got %d", ErrInvalidLimits, l.DailyWithdrawals)
	}
	return nil
}

// Policy holds optional rules configured per deployment rather than per
// variant. The zero value disables them.
type Policy struct {
	// DepositCeiling rejects deposits that would take the balance above it.
	DepositCeiling decimal.Decimal
}

func (p Policy) hasCeiling() bool { return p.DepositCeiling.IsPositive() }

// Snapshot is a consistent read of an account's state.
type Snapshot struct {
	Number           int
	Branch           string
	Kind             Kind
	Balance          decimal.Decimal
	Limits           *Limits
	WithdrawalsToday int
	HistoryLen       int
}

// Summary is the display record produced for account listings.
type Summary struct {
	Number           int             `json:"number"`
	Branch           string          `json:"branch"`
	Type             Kind            `json:"type"`
	OwnerName        string          `json:"owner_name"`
	OwnerID          string          `json:"owner_id"`
	Balance          decimal.Decimal `json:"balance"`
	Limits           *Limits         `json:"limits,omitempty"`
	WithdrawalsToday int             `json:"withdrawals_today"`
}
