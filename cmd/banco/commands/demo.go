package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/audit"
	"github.com/congo-pay/banco/internal/banking"
	"github.com/congo-pay/banco/internal/identity"
	"github.com/congo-pay/banco/internal/ledger"
)

type demoOptions struct {
	taxID     string
	name      string
	deposits  []string
	withdraws []string
}

func demoCmd() *cobra.Command {
	opts := demoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted session against an in-memory bank and print the statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.taxID, "tax-id", "12345678900", "client tax id")
	cmd.Flags().StringVar(&opts.name, "name", "Demo Client", "client full name")
	cmd.Flags().StringSliceVar(&opts.deposits, "deposit", []string{"1000"}, "deposit amounts, applied in order")
	cmd.Flags().StringSliceVar(&opts.withdraws, "withdraw", []string{"100", "50"}, "withdrawal amounts, applied after deposits")
	return cmd
}

func runDemo(ctx context.Context, out io.Writer, opts demoOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	policy := account.Policy{DepositCeiling: cfg.DepositCeiling}
	hook := audit.Guard(audit.NewLoggerHook(logger), logger)
	clients := identity.NewService(identity.NewMemoryRepository(), account.NewSequence(), policy, hook)
	bank := banking.NewService(clients, ledger.NewIDAllocator(), logger)

	client, err := bank.RegisterClient(ctx, identity.RegisterInput{TaxID: opts.taxID, FullName: opts.name})
	if err != nil {
		return err
	}
	acct, err := bank.OpenAccount(ctx, client, cfg.DefaultWithdrawalCap, cfg.DefaultDailyWithdrawals)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Opened account %d for %s\n", acct.Number(), client.OwnerName())

	steps := []struct {
		kind    ledger.Kind
		amounts []string
		apply   func(context.Context, *identity.Client, *account.Account, decimal.Decimal) (banking.Receipt, error)
	}{
		{ledger.KindDeposit, opts.deposits, bank.Deposit},
		{ledger.KindWithdrawal, opts.withdraws, bank.Withdraw},
	}
	for _, step := range steps {
		for _, raw := range step.amounts {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("invalid %s amount %q: %w", step.kind, raw, err)
			}
			if _, err := step.apply(ctx, client, acct, amount); err != nil {
				fmt.Fprintf(out, "%s of %s rejected: %v\n", step.kind, amount.StringFixed(2), err)
				continue
			}
			fmt.Fprintf(out, "%s of %s accepted\n", step.kind, amount.StringFixed(2))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, bank.Statement(acct))

	summaries, err := bank.ListAccounts(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
