package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable record of a requested deposit or withdrawal.
type Transaction struct {
	id        int64
	kind      Kind
	amount    decimal.Decimal
	timestamp time.Time
}

// New validates amount and builds a transaction of the given kind. No
// identifier is drawn from alloc when validation fails.
func New(alloc *IDAllocator, kind Kind, amount decimal.Decimal) (Transaction, error) {
	switch kind {
	case KindDeposit, KindWithdrawal:
	default:
		return Transaction{}, fmt.Errorf("unknown transaction kind %q", kind)
	}
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: %s %s", ErrInvalidAmount, kind, amount.String())
	}
	return Transaction{
		id:        alloc.Next(),
		kind:      kind,
		amount:    amount,
		timestamp: time.Now(),
	}, nil
}

// NewDeposit builds a deposit transaction.
func NewDeposit(alloc *IDAllocator, amount decimal.Decimal) (Transaction, error) {
	return New(alloc, KindDeposit, amount)
}

// NewWithdrawal builds a withdrawal transaction.
func NewWithdrawal(alloc *IDAllocator, amount decimal.Decimal) (Transaction, error) {
	return New(alloc, KindWithdrawal, amount)
}

func (t Transaction) ID() int64               { return t.id }
func (t Transaction) Kind() Kind              { return t.kind }
func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) Timestamp() time.Time    { return t.timestamp }

// Apply hands the monetary effect to the account's rule set.
func (t Transaction) Apply(m Mover) error {
	switch t.kind {
	case KindDeposit:
		return m.Deposit(t.amount)
	case KindWithdrawal:
		return m.Withdraw(t.amount)
	default:
		panic(fmt.Sprintf("ledger: apply on unconstructed transaction (kind %q)", t.kind))
	}
}
