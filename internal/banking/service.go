package banking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/identity"
	"github.com/congo-pay/banco/internal/ledger"
)

// ErrAccountNotFound indicates no account carries the requested number.
var ErrAccountNotFound = errors.New("account not found")

// Service is the entry point used by the outer layers: it registers clients,
// opens accounts and routes deposits and withdrawals through the owning client.
type Service struct {
	clients *identity.Service
	ids     *ledger.IDAllocator
	logger  *slog.Logger
}

// NewService builds the banking service. ids must be shared by every caller
// that creates transactions in this process.
func NewService(clients *identity.Service, ids *ledger.IDAllocator, logger *slog.Logger) *Service {
	if ids == nil {
		ids = ledger.NewIDAllocator()
	}
	return &Service{clients: clients, ids: ids, logger: logger}
}

// Receipt describes a committed transaction.
type Receipt struct {
	TransactionID int64
	Kind          ledger.Kind
	Amount        decimal.Decimal
	AccountNumber int
	Balance       decimal.Decimal
	CompletedAt   time.Time
}

// RegisterClient registers a natural-person client.
func (s *Service) RegisterClient(ctx context.Context, input identity.RegisterInput) (*identity.Client, error) {
	client, err := s.clients.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	s.log(ctx, "client registered", slog.String("name", client.OwnerName()))
	return client, nil
}

// FindClient looks a client up by tax id.
func (s *Service) FindClient(ctx context.Context, taxID string) (*identity.Client, error) {
	return s.clients.Find(ctx, taxID)
}

// OpenAccount opens a LimitedWithdrawalAccount for client.
func (s *Service) OpenAccount(ctx context.Context, client *identity.Client, perWithdrawalCap decimal.Decimal, dailyWithdrawalLimit int) (*account.Account, error) {
	if client == nil {
		return nil, identity.ErrClientNotFound
	}
	return client.OpenAccount(ctx, account.KindLimitedWithdrawal, account.Limits{
		PerWithdrawalCap: perWithdrawalCap,
		DailyWithdrawals: dailyWithdrawalLimit,
	})
}

// OpenStandardAccount opens an account without withdrawal limits.
func (s *Service) OpenStandardAccount(ctx context.Context, client *identity.Client) (*account.Account, error) {
	if client == nil {
		return nil, identity.ErrClientNotFound
	}
	return client.OpenAccount(ctx, account.KindStandard, account.Limits{})
}

// Deposit credits acct on behalf of client.
func (s *Service) Deposit(ctx context.Context, client *identity.Client, acct *account.Account, amount decimal.Decimal) (Receipt, error) {
	return s.execute(ctx, client, acct, ledger.KindDeposit, amount)
}

// Withdraw debits acct on behalf of client.
func (s *Service) Withdraw(ctx context.Context, client *identity.Client, acct *account.Account, amount decimal.Decimal) (Receipt, error) {
	return s.execute(ctx, client, acct, ledger.KindWithdrawal, amount)
}

func (s *Service) execute(ctx context.Context, client *identity.Client, acct *account.Account, kind ledger.Kind, amount decimal.Decimal) (Receipt, error) {
	if client == nil {
		return Receipt{}, identity.ErrClientNotFound
	}
	tx, err := ledger.New(s.ids, kind, amount)
	if err != nil {
		return Receipt{}, err
	}
	balance, err := client.Execute(ctx, acct, tx)
	if err != nil {
		s.log(ctx, "transaction rejected",
			slog.String("kind", kind.String()),
			slog.String("amount", amount.StringFixed(2)),
			slog.Any("error", err),
		)
		return Receipt{}, err
	}
	return Receipt{
		TransactionID: tx.ID(),
		Kind:          tx.Kind(),
		Amount:        tx.Amount(),
		AccountNumber: acct.Number(),
		Balance:       balance,
		CompletedAt:   tx.Timestamp().UTC(),
	}, nil
}

// Statement renders the account history followed by the current balance.
func (s *Service) Statement(acct *account.Account) string {
	var b strings.Builder
	report, balance := acct.Statement()
	fmt.Fprintf(&b, "Statement - account %d, branch %s\n", acct.Number(), acct.Branch())
	b.WriteString(report)
	fmt.Fprintf(&b, "\nBalance: %s", balance.StringFixed(2))
	return b.String()
}

// Transactions returns the account's transactions of the given kind, or all
// of them when kind is empty, oldest first.
func (s *Service) Transactions(acct *account.Account, kind string) []ledger.Transaction {
	return slices.Collect(acct.History().FilterByKind(kind))
}

// Accounts returns every account of every client ordered by number.
func (s *Service) Accounts(ctx context.Context) ([]*account.Account, error) {
	clients, err := s.clients.Clients(ctx)
	if err != nil {
		return nil, err
	}
	var all []*account.Account
	for _, c := range clients {
		all = append(all, c.Accounts()...)
	}
	slices.SortFunc(all, func(a, b *account.Account) int { return a.Number() - b.Number() })
	return all, nil
}

// ListAccounts returns the display records of every account.
func (s *Service) ListAccounts(ctx context.Context) ([]account.Summary, error) {
	all, err := s.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	return account.Summarize(all), nil
}

// FindAccount returns the account with the given number.
func (s *Service) FindAccount(ctx context.Context, number int) (*account.Account, error) {
	all, err := s.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a.Number() == number {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrAccountNotFound, number)
}

func (s *Service) log(ctx context.Context, msg string, attrs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.InfoContext(ctx, msg, attrs...)
}
