package audit

import (
	"context"
	"log/slog"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/ledger"
)

// LoggerHook writes audit events to the structured logger.
type LoggerHook struct {
	logger *slog.Logger
}

// NewLoggerHook constructs a logging audit hook.
func NewLoggerHook(logger *slog.Logger) *LoggerHook {
	return &LoggerHook{logger: logger}
}

func (h *LoggerHook) OnAccountOpened(ctx context.Context, acct *account.Account) error {
	if h == nil || h.logger == nil {
		return nil
	}
	e := AccountOpened(acct)
	h.logger.InfoContext(ctx, "account opened",
		slog.Int("account", e.AccountNumber),
		slog.String("branch", e.Branch),
		slog.String("type", string(e.AccountType)),
		slog.String("owner", e.OwnerName),
		slog.String("owner_ref", e.OwnerRef),
	)
	return nil
}

func (h *LoggerHook) OnTransactionCommitted(ctx context.Context, tx ledger.Transaction, acct *account.Account) error {
	if h == nil || h.logger == nil {
		return nil
	}
	e := TransactionCommitted(tx, acct)
	h.logger.InfoContext(ctx, "transaction committed",
		slog.Int64("transaction_id", e.TransactionID),
		slog.String("kind", e.TransactionKind.String()),
		slog.String("amount", e.Amount.StringFixed(2)),
		slog.Int("account", e.AccountNumber),
		slog.String("balance", e.Balance.StringFixed(2)),
	)
	return nil
}
