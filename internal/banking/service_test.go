package banking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/identity"
	"github.com/congo-pay/banco/internal/ledger"
	"github.com/congo-pay/banco/internal/logging"
)

func newTestService(policy account.Policy) *Service {
	clients := identity.NewService(identity.NewMemoryRepository(), account.NewSequence(), policy, nil)
	return NewService(clients, ledger.NewIDAllocator(), logging.Discard())
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func mustRegister(t *testing.T, svc *Service, taxID, name string) *identity.Client {
	t.Helper()
	client, err := svc.RegisterClient(context.Background(), identity.RegisterInput{TaxID: taxID, FullName: name})
	if err != nil {
		t.Fatalf("register %s: %v", taxID, err)
	}
	return client
}

func TestDepositWithdrawFlow(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")

	acct, err := svc.OpenAccount(ctx, client, dec("500"), 3)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	dep, err := svc.Deposit(ctx, client, acct, dec("100"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	wd, err := svc.Withdraw(ctx, client, acct, dec("30"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !wd.Balance.Equal(dec("70")) || wd.AccountNumber != acct.Number() {
		t.Fatalf("unexpected receipt %+v", wd)
	}
	if wd.TransactionID <= dep.TransactionID {
		t.Fatalf("transaction ids not increasing: %d then %d", dep.TransactionID, wd.TransactionID)
	}

	deposits := svc.Transactions(acct, "deposit")
	if len(deposits) != 1 || deposits[0].ID() != dep.TransactionID {
		t.Fatalf("unexpected deposits %v", deposits)
	}
	if all := svc.Transactions(acct, ""); len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all))
	}
}

func TestInvalidAmountRejected(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenAccount(ctx, client, dec("500"), 3)

	for _, amount := range []string{"0", "-5"} {
		if _, err := svc.Deposit(ctx, client, acct, dec(amount)); !errors.Is(err, ledger.ErrInvalidAmount) {
			t.Fatalf("deposit %s: expected invalid amount, got %v", amount, err)
		}
		if _, err := svc.Withdraw(ctx, client, acct, dec(amount)); !errors.Is(err, ledger.ErrInvalidAmount) {
			t.Fatalf("withdraw %s: expected invalid amount, got %v", amount, err)
		}
	}
	if acct.History().Len() != 0 {
		t.Fatal("invalid amounts were recorded")
	}
	if svc.ids.Last() != 0 {
		t.Fatalf("invalid amounts consumed ids, last=%d", svc.ids.Last())
	}
}

func TestForeignAccountRejected(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	owner := mustRegister(t, svc, "111", "Ana")
	other := mustRegister(t, svc, "222", "Bruno")
	acct, _ := svc.OpenAccount(ctx, owner, dec("500"), 3)

	if _, err := svc.Deposit(ctx, other, acct, dec("10")); !errors.Is(err, identity.ErrAccountNotOwned) {
		t.Fatalf("expected not owned, got %v", err)
	}
	if !acct.Balance().IsZero() || acct.History().Len() != 0 {
		t.Fatal("foreign deposit changed the account")
	}
}

func TestLimitedAccountScenario(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenAccount(ctx, client, dec("100"), 2)

	if _, err := svc.Deposit(ctx, client, acct, dec("1000")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := svc.Withdraw(ctx, client, acct, dec("150")); !errors.Is(err, ledger.ErrPerWithdrawalCapExceeded) {
		t.Fatalf("expected cap exceeded, got %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Withdraw(ctx, client, acct, dec("50")); err != nil {
			t.Fatalf("withdraw %d: %v", i, err)
		}
	}
	if _, err := svc.Withdraw(ctx, client, acct, dec("10")); !errors.Is(err, ledger.ErrDailyLimitExceeded) {
		t.Fatalf("expected daily limit, got %v", err)
	}
	if !acct.Balance().Equal(dec("900")) {
		t.Fatalf("expected balance 900, got %s", acct.Balance())
	}
}

func TestDepositCeilingPolicy(t *testing.T) {
	svc := newTestService(account.Policy{DepositCeiling: dec("100")})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenStandardAccount(ctx, client)

	if _, err := svc.Deposit(ctx, client, acct, dec("80")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := svc.Deposit(ctx, client, acct, dec("30")); !errors.Is(err, ledger.ErrDepositCeilingExceeded) {
		t.Fatalf("expected ceiling exceeded, got %v", err)
	}
}

func TestStatement(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenAccount(ctx, client, dec("500"), 3)

	empty := svc.Statement(acct)
	if !strings.Contains(empty, "No transactions recorded.") || !strings.HasSuffix(empty, "Balance: 0.00") {
		t.Fatalf("unexpected empty statement:\n%s", empty)
	}

	_, _ = svc.Deposit(ctx, client, acct, dec("100"))
	_, _ = svc.Withdraw(ctx, client, acct, dec("25.5"))
	report := svc.Statement(acct)
	if !strings.Contains(report, "Deposit") || !strings.Contains(report, "Withdrawal") {
		t.Fatalf("statement misses entries:\n%s", report)
	}
	if strings.Index(report, "Deposit") > strings.Index(report, "Withdrawal") {
		t.Fatalf("statement not in chronological order:\n%s", report)
	}
	if !strings.HasSuffix(report, "Balance: 74.50") {
		t.Fatalf("unexpected balance line:\n%s", report)
	}
}

func TestListAndFindAccounts(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	ana := mustRegister(t, svc, "111", "Ana")
	bruno := mustRegister(t, svc, "222", "Bruno")

	a1, _ := svc.OpenAccount(ctx, ana, dec("500"), 3)
	b1, _ := svc.OpenStandardAccount(ctx, bruno)
	a2, _ := svc.OpenAccount(ctx, ana, dec("50"), 1)

	summaries, err := svc.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	want := []int{a1.Number(), b1.Number(), a2.Number()}
	for i, s := range summaries {
		if s.Number != want[i] {
			t.Fatalf("summary %d: expected number %d, got %d", i, want[i], s.Number)
		}
	}
	if summaries[1].Type != account.KindStandard || summaries[1].Limits != nil {
		t.Fatalf("standard account summary unexpected: %+v", summaries[1])
	}
	if summaries[0].OwnerName != "Ana" || summaries[0].OwnerID != "111" {
		t.Fatalf("unexpected owner fields: %+v", summaries[0])
	}

	found, err := svc.FindAccount(ctx, b1.Number())
	if err != nil || found != b1 {
		t.Fatalf("find account: %v", err)
	}
	if _, err := svc.FindAccount(ctx, 1); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConcurrentDepositsAssignUniqueIDs(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenStandardAccount(ctx, client)

	const n = 100
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.Deposit(ctx, client, acct, dec("1"))
			if err != nil {
				t.Errorf("deposit: %v", err)
				return
			}
			ids <- r.TransactionID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate transaction id %d", id)
		}
		seen[id] = true
	}
	if !acct.Balance().Equal(decimal.NewFromInt(n)) || acct.History().Len() != n {
		t.Fatalf("expected %d deposits, balance=%s history=%d", n, acct.Balance(), acct.History().Len())
	}
}

func TestNilClientRejected(t *testing.T) {
	svc := newTestService(account.Policy{})
	if _, err := svc.OpenAccount(context.Background(), nil, dec("1"), 1); !errors.Is(err, identity.ErrClientNotFound) {
		t.Fatalf("expected client not found, got %v", err)
	}
}

func TestReceiptBalanceIsProducedByItsTransaction(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenStandardAccount(ctx, client)

	const n = 100
	balances := make(chan decimal.Decimal, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.Deposit(ctx, client, acct, dec("1"))
			if err != nil {
				t.Errorf("deposit: %v", err)
				return
			}
			balances <- r.Balance
		}()
	}
	wg.Wait()
	close(balances)

	// Each deposit of 1 yields a distinct running balance between 1 and n.
	seen := map[string]bool{}
	for b := range balances {
		if b.LessThan(dec("1")) || b.GreaterThan(decimal.NewFromInt(n)) || seen[b.String()] {
			t.Fatalf("receipt balance %s not produced by its own deposit", b)
		}
		seen[b.String()] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct balances, got %d", n, len(seen))
	}
}

func TestStatementConsistentUnderConcurrentDeposits(t *testing.T) {
	svc := newTestService(account.Policy{})
	ctx := context.Background()
	client := mustRegister(t, svc, "111", "Ana")
	acct, _ := svc.OpenStandardAccount(ctx, client)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Deposit(ctx, client, acct, dec("1"))
		}()
	}
	for i := 0; i < 50; i++ {
		statement := svc.Statement(acct)
		entries := strings.Count(statement, "Type: Deposit")
		want := "Balance: " + decimal.NewFromInt(int64(entries)).StringFixed(2)
		if !strings.HasSuffix(statement, want) {
			wg.Wait()
			t.Fatalf("statement lists %d deposits but does not end with %q:\n%s", entries, want, statement)
		}
	}
	wg.Wait()
}
