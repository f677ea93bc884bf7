package account

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/banco/internal/ledger"
)

// Account holds a balance and its transaction history. Balance, withdrawal
// counter and history are mutated only while mu is held.
type Account struct {
	mu               sync.Mutex
	number           int
	branch           string
	kind             Kind
	owner            Owner
	limits           Limits
	policy           Policy
	balance          decimal.Decimal
	withdrawalsToday int
	history          *ledger.History
}

// OpenInput captures what is needed to create an account.
type OpenInput struct {
	Number int
	Owner  Owner
	Kind   Kind
	Limits Limits
	Policy Policy
}

// Open builds an account bound to its owner with a zero balance.
func Open(input OpenInput) (*Account, error) {
	if input.Owner == nil {
		return nil, fmt.Errorf("account owner is required")
	}
	if input.Number <= 0 {
		return nil, fmt.Errorf("account number must be positive")
	}
	switch input.Kind {
	case KindStandard:
		input.Limits = Limits{}
	case KindLimitedWithdrawal:
		if err := input.Limits.Validate(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown account kind %q", input.Kind)
	}
	return &Account{
		number:  input.Number,
		branch:  DefaultBranch,
		kind:    input.Kind,
		owner:   input.Owner,
		limits:  input.Limits,
		policy:  input.Policy,
		balance: decimal.Zero,
		history: ledger.NewHistory(),
	}, nil
}

func (a *Account) Number() int    { return a.number }
func (a *Account) Branch() string { return a.branch }
func (a *Account) Kind() Kind     { return a.kind }
func (a *Account) Owner() Owner   { return a.owner }

// Limits returns the withdrawal limits, nil for a standard account.
func (a *Account) Limits() *Limits {
	if a.kind != KindLimitedWithdrawal {
		return nil
	}
	l := a.limits
	return &l
}

// History exposes the account's committed transactions.
func (a *Account) History() *ledger.History {
	a.mustBeOpen()
	return a.history
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// WithdrawalsToday returns how many withdrawals were accepted so far.
func (a *Account) WithdrawalsToday() int {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdrawalsToday
}

// Snapshot returns a consistent view of the account state.
func (a *Account) Snapshot() Snapshot {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Number:           a.number,
		Branch:           a.branch,
		Kind:             a.kind,
		Balance:          a.balance,
		Limits:           a.Limits(),
		WithdrawalsToday: a.withdrawalsToday,
		HistoryLen:       a.history.Len(),
	}
}

// Deposit applies the deposit rule without recording a transaction.
func (a *Account) Deposit(amount decimal.Decimal) error {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	return rules{a}.Deposit(amount)
}

// Withdraw applies the withdrawal rules without recording a transaction.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	return rules{a}.Withdraw(amount)
}

// Commit applies tx and appends it to the history in one step, returning the
// balance tx produced. A rejected transaction leaves the account unchanged.
func (a *Account) Commit(tx ledger.Transaction) (decimal.Decimal, error) {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := tx.Apply(rules{a}); err != nil {
		return a.balance, err
	}
	a.history.Append(tx)
	return a.balance, nil
}

// Statement returns the history report and the balance it leads to, read
// together so no commit falls between them.
func (a *Account) Statement() (report string, balance decimal.Decimal) {
	a.mustBeOpen()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.Report(), a.balance
}

func (a *Account) mustBeOpen() {
	if a == nil || a.history == nil {
		panic("account: used before Open")
	}
}

// rules is the unlocked rule set; callers hold a.mu.
type rules struct {
	a *Account
}

func (r rules) Deposit(amount decimal.Decimal) error {
	a := r.a
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit of %s", ledger.ErrInvalidAmount, amount)
	}
	if a.policy.hasCeiling() && a.balance.Add(amount).GreaterThan(a.policy.DepositCeiling) {
		return fmt.Errorf("%w: balance would reach %s, ceiling is %s",
			ledger.ErrDepositCeilingExceeded, a.balance.Add(amount).StringFixed(2), a.policy.DepositCeiling.StringFixed(2))
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// Withdraw checks, in order: amount, daily count, per-withdrawal cap, funds.
func (r rules) Withdraw(amount decimal.Decimal) error {
	a := r.a
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", ledger.ErrInvalidAmount, amount)
	}
	limited := a.kind == KindLimitedWithdrawal
	if limited {
		if a.withdrawalsToday >= a.limits.DailyWithdrawals {
			return fmt.Errorf("%w: %d of %d used",
				ledger.ErrDailyLimitExceeded, a.withdrawalsToday, a.limits.DailyWithdrawals)
		}
		if amount.GreaterThan(a.limits.PerWithdrawalCap) {
			return fmt.Errorf("%w: %s above cap %s",
				ledger.ErrPerWithdrawalCapExceeded, amount.StringFixed(2), a.limits.PerWithdrawalCap.StringFixed(2))
		}
	}
	if amount.GreaterThan(a.balance) {
		return fmt.Errorf("%w: balance %s, requested %s",
			ledger.ErrInsufficientFunds, a.balance.StringFixed(2), amount.StringFixed(2))
	}
	a.balance = a.balance.Sub(amount)
	if limited {
		a.withdrawalsToday++
	}
	return nil
}
