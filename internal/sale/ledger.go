package sale

import "github.com/BIDMYLIFE/POS/internal/domain"

// Ledger is the session's transaction history, most recent first. Entries
// are never mutated or removed.
type Ledger struct {
	entries []domain.Transaction
}

func (l *Ledger) prepend(tx domain.Transaction) {
	l.entries = append([]domain.Transaction{tx}, l.entries...)
}

func (l *Ledger) All() []domain.Transaction {
	return cloneTransactions(l.entries)
}

// Recent returns at most n entries from the front of the ledger.
func (l *Ledger) Recent(n int) []domain.Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return cloneTransactions(l.entries[:n])
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func cloneTransactions(src []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(src))
	for i, tx := range src {
		out[i] = tx.Clone()
	}
	return out
}
