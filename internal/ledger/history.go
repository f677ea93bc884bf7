package ledger

import (
	"fmt"
	"iter"
	"strings"
	"sync"
)

const (
	// TimestampLayout is the day-first format used in reports.
	TimestampLayout = "02/01/2006 15:04:05"

	emptyReport = "No transactions recorded."
)

// History is the append-only, commit-ordered log of one account.
type History struct {
	mu      sync.RWMutex
	entries []Transaction
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds tx as the newest entry. Callers append only after the
// transaction was applied successfully.
func (h *History) Append(tx Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, tx)
}

// Len returns the number of committed entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// All returns a copy of the entries, oldest first.
func (h *History) All() []Transaction {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Transaction, len(h.entries))
	copy(out, h.entries)
	return out
}

// FilterByKind yields the entries whose kind matches name, case-insensitive.
// An empty name yields every entry. Each range over the returned sequence
// starts from the oldest entry and stops at the entries present when it
// began.
func (h *History) FilterByKind(name string) iter.Seq[Transaction] {
	name = strings.TrimSpace(name)
	return func(yield func(Transaction) bool) {
		n := h.Len()
		for i := 0; i < n; i++ {
			h.mu.RLock()
			tx := h.entries[i]
			h.mu.RUnlock()
			if name != "" && !tx.kind.Matches(name) {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// Report renders the history as display-ready text.
func (h *History) Report() string {
	return FormatEntries(h.FilterByKind(""))
}

// FormatEntries renders one line per transaction, or the empty-history
// message when seq yields nothing.
func FormatEntries(seq iter.Seq[Transaction]) string {
	var b strings.Builder
	for tx := range seq {
		fmt.Fprintf(&b, "Type: %-10s | Amount: %10s | Date: %s\n",
			tx.kind, tx.amount.StringFixed(2), tx.timestamp.Format(TimestampLayout))
	}
	if b.Len() == 0 {
		return emptyReport
	}
	return strings.TrimSuffix(b.String(), "\n")
}
