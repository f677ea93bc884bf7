package audit

import (
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/ledger"
)

const (
	// EventAccountOpened is emitted after an account is created.
	EventAccountOpened = "account_opened"
	// EventTransactionCommitted is emitted after a transaction is recorded.
	EventTransactionCommitted = "transaction_committed"
)

// Event is the serialisable form of an audit notification. Owner tax ids are
// never included, only their fingerprint.
type Event struct {
	Type            string          `json:"type"`
	AccountNumber   int             `json:"account_number"`
	Branch          string          `json:"branch"`
	AccountType     account.Kind    `json:"account_type"`
	OwnerName       string          `json:"owner_name"`
	OwnerRef        string          `json:"owner_ref"`
	TransactionID   int64           `json:"transaction_id,omitempty"`
	TransactionKind ledger.Kind     `json:"transaction_kind,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Balance         decimal.Decimal `json:"balance"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// AccountOpened describes a newly created account.
func AccountOpened(acct *account.Account) Event {
	return Event{
		Type:          EventAccountOpened,
		AccountNumber: acct.Number(),
		Branch:        acct.Branch(),
		AccountType:   acct.Kind(),
		OwnerName:     acct.Owner().OwnerName(),
		OwnerRef:      Fingerprint(acct.Owner().OwnerID()),
		Amount:        decimal.Zero,
		Balance:       acct.Balance(),
		OccurredAt:    time.Now().UTC(),
	}
}

// TransactionCommitted describes a committed transaction.
func TransactionCommitted(tx ledger.Transaction, acct *account.Account) Event {
	return Event{
		Type:            EventTransactionCommitted,
		AccountNumber:   acct.Number(),
		Branch:          acct.Branch(),
		AccountType:     acct.Kind(),
		OwnerName:       acct.Owner().OwnerName(),
		OwnerRef:        Fingerprint(acct.Owner().OwnerID()),
		TransactionID:   tx.ID(),
		TransactionKind: tx.Kind(),
		Amount:          tx.Amount(),
		Balance:         acct.Balance(),
		OccurredAt:      tx.Timestamp().UTC(),
	}
}

// Fingerprint returns a short stable digest of id for log correlation.
func Fingerprint(id string) string {
	sum := blake2b.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8])
}
