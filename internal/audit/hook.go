package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/ledger"
)

// Hook observes successful operations. It is called strictly after the
// operation completed, so its result never changes the operation outcome.
type Hook interface {
	OnAccountOpened(ctx context.Context, acct *account.Account) error
	OnTransactionCommitted(ctx context.Context, tx ledger.Transaction, acct *account.Account) error
}

// Nop ignores every notification.
type Nop struct{}

func (Nop) OnAccountOpened(context.Context, *account.Account) error { return nil }

func (Nop) OnTransactionCommitted(context.Context, ledger.Transaction, *account.Account) error {
	return nil
}

// Multi fans a notification out to several hooks, continuing past failures.
type Multi []Hook

func (m Multi) OnAccountOpened(ctx context.Context, acct *account.Account) error {
	var errs []error
	for _, h := range m {
		if h == nil {
			continue
		}
		if err := h.OnAccountOpened(ctx, acct); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) OnTransactionCommitted(ctx context.Context, tx ledger.Transaction, acct *account.Account) error {
	var errs []error
	for _, h := range m {
		if h == nil {
			continue
		}
		if err := h.OnTransactionCommitted(ctx, tx, acct); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type guarded struct {
	next   Hook
	logger *slog.Logger
}

// Guard wraps next so that its errors and panics are logged and swallowed.
func Guard(next Hook, logger *slog.Logger) Hook {
	if next == nil {
		return Nop{}
	}
	return &guarded{next: next, logger: logger}
}

func (g *guarded) OnAccountOpened(ctx context.Context, acct *account.Account) (err error) {
	defer g.catch("account_opened", &err)
	if err := g.next.OnAccountOpened(ctx, acct); err != nil {
		g.warn("account_opened", err, slog.Int("account", acct.Number()))
	}
	return nil
}

func (g *guarded) OnTransactionCommitted(ctx context.Context, tx ledger.Transaction, acct *account.Account) (err error) {
	defer g.catch("transaction_committed", &err)
	if err := g.next.OnTransactionCommitted(ctx, tx, acct); err != nil {
		g.warn("transaction_committed", err, slog.Int64("transaction_id", tx.ID()), slog.Int("account", acct.Number()))
	}
	return nil
}

func (g *guarded) catch(event string, err *error) {
	if r := recover(); r != nil {
		g.warn(event, fmt.Errorf("audit hook panic: %v", r))
		*err = nil
	}
}

func (g *guarded) warn(event string, err error, attrs ...any) {
	if g.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("event", event), slog.Any("error", err))
	g.logger.Warn("audit hook failed", attrs...)
}
