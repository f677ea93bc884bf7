package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/audit"
	"github.com/congo-pay/banco/internal/ledger"
)

// Client owns accounts and is the only party allowed to move money through
// them.
type Client struct {
	mu        sync.RWMutex
	address   string
	person    *Person
	accounts  []*account.Account
	numbers   *account.Sequence
	policy    account.Policy
	hook      audit.Hook
	createdAt time.Time
}

// ClientInput wires a client to the shared account numbering, the account
// policy and the audit hook.
type ClientInput struct {
	Address string
	Person  *Person
	Numbers *account.Sequence
	Policy  account.Policy
	Hook    audit.Hook
}

// NewClient builds a client without accounts.
func NewClient(input ClientInput) *Client {
	numbers := input.Numbers
	if numbers == nil {
		numbers = account.NewSequence()
	}
	// Guard keeps a failing or panicking hook from affecting the operation.
	hook := audit.Guard(input.Hook, nil)
	var person *Person
	if input.Person != nil {
		p := *input.Person
		person = &p
	}
	return &Client{
		address:   input.Address,
		person:    person,
		numbers:   numbers,
		policy:    input.Policy,
		hook:      hook,
		createdAt: time.Now().UTC(),
	}
}

func (c *Client) Address() string { return c.address }

// Person returns the natural-person identity, nil when the client has none.
func (c *Client) Person() *Person {
	if c.person == nil {
		return nil
	}
	p := *c.person
	return &p
}

// OwnerName implements account.Owner.
func (c *Client) OwnerName() string {
	if c.person == nil {
		return ""
	}
	return c.person.FullName
}

// OwnerID implements account.Owner.
func (c *Client) OwnerID() string {
	if c.person == nil {
		return unidentified
	}
	return c.person.TaxID
}

// Accounts returns the client's accounts in opening order.
func (c *Client) Accounts() []*account.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*account.Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Account finds one of the client's accounts by number.
func (c *Client) Account(number int) (*account.Account, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.accounts {
		if a.Number() == number {
			return a, true
		}
	}
	return nil, false
}

// Profile returns a read-only view of the client.
func (c *Client) Profile() Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := Profile{Address: c.address, AccountCount: len(c.accounts), CreatedAt: c.createdAt}
	if c.person != nil {
		p.TaxID = c.person.TaxID
		p.FullName = c.person.FullName
		p.BirthDate = c.person.BirthDate
	}
	return p
}

// OpenAccount creates an account bound to this client with the next account
// number. Limits are ignored for standard accounts.
func (c *Client) OpenAccount(ctx context.Context, kind account.Kind, limits account.Limits) (*account.Account, error) {
	if kind == account.KindLimitedWithdrawal {
		if err := limits.Validate(); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	acct, err := account.Open(account.OpenInput{
		Number: c.numbers.Next(),
		Owner:  c,
		Kind:   kind,
		Limits: limits,
		Policy: c.policy,
	})
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.accounts = append(c.accounts, acct)
	c.mu.Unlock()

	_ = c.hook.OnAccountOpened(ctx, acct)
	return acct, nil
}

// Execute applies tx to acct when acct belongs to this client, recording it
// in the account history on success. It returns the balance tx produced.
func (c *Client) Execute(ctx context.Context, acct *account.Account, tx ledger.Transaction) (decimal.Decimal, error) {
	if !c.owns(acct) {
		number := 0
		if acct != nil {
			number = acct.Number()
		}
		return decimal.Zero, fmt.Errorf("%w: account %d", ErrAccountNotOwned, number)
	}
	balance, err := acct.Commit(tx)
	if err != nil {
		return balance, err
	}
	_ = c.hook.OnTransactionCommitted(ctx, tx, acct)
	return balance, nil
}

func (c *Client) owns(acct *account.Account) bool {
	if acct == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.accounts {
		if a == acct {
			return true
		}
	}
	return false
}
