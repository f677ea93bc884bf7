package account

// Summarize builds display records for accounts, in the given order.
func Summarize(accounts []*Account) []Summary {
	out := make([]Summary, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Summary())
	}
	return out
}

// Summary returns the display record of a single account.
func (a *Account) Summary() Summary {
	snap := a.Snapshot()
	return Summary{
		Number:           snap.Number,
		Branch:           snap.Branch,
		Type:             snap.Kind,
		OwnerName:        a.owner.OwnerName(),
		OwnerID:          a.owner.OwnerID(),
		Balance:          snap.Balance,
		Limits:           snap.Limits,
		WithdrawalsToday: snap.WithdrawalsToday,
	}
}
