package budget

import (
	"fmt"
	"iter"
)

// LedgerBucket is an envelope: a budget bucket code paired with the bank
// account that funds it. The pair is the identity: two envelopes with the
// same code but different funding accounts are distinct.
type LedgerBucket struct {
	Code    string  `json:"bucket"`
	Account Account `json:"account"`
}

// NewLedgerBucket creates an envelope identity.
func NewLedgerBucket(code string, account Account) LedgerBucket {
	return LedgerBucket{Code: code, Account: account}
}

func (b LedgerBucket) String() string {
	return fmt.Sprintf("%s (%s)", b.Code, b.Account.Name)
}

// key is the registry key used by the book.
func (b LedgerBucket) key() string { return b.Code + "\x00" + b.Account.Name }

// MarshalJSON implements the json.Marshaler interface for LedgerBucket.
func (b LedgerBucket) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("bucket", b.Code)
	w.Append("account", b.Account)
	return w.MarshalJSON()
}

// LedgerEntry is the state of one envelope for one reconciliation period:
// the opening balance carried from the prior period, the period's
// transactions in insertion order, and the closing balance.
//
// The closing balance is always recomputed from the opening balance and the
// full transaction set, never adjusted incrementally, so removing a
// transaction cannot introduce drift. Envelope balances clamp at zero.
type LedgerEntry struct {
	bucket       LedgerBucket
	opening      Money
	transactions []LedgerTransaction
	balance      Money
}

func newLedgerEntry(bucket LedgerBucket, opening Money) *LedgerEntry {
	return &LedgerEntry{bucket: bucket, opening: opening, balance: clampZero(opening)}
}

// Bucket returns the envelope this entry belongs to.
func (e *LedgerEntry) Bucket() LedgerBucket { return e.bucket }

// Opening returns the balance carried from the prior period.
func (e *LedgerEntry) Opening() Money { return e.opening }

// Balance returns the closing balance after applying all transactions to the
// opening balance. It is never negative.
func (e *LedgerEntry) Balance() Money { return e.balance }

// NetAmount returns the sum of the entry's transaction amounts.
func (e *LedgerEntry) NetAmount() Money {
	sum := e.opening.Zeroed()
	for _, tx := range e.transactions {
		sum = sum.Add(tx.Amount())
	}
	return sum
}

// Transactions returns an iterator over the entry's transactions in
// insertion order.
func (e *LedgerEntry) Transactions() iter.Seq2[int, LedgerTransaction] {
	return func(yield func(int, LedgerTransaction) bool) {
		for i, tx := range e.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Transaction returns the transaction with the given id, or nil.
func (e *LedgerEntry) Transaction(id string) LedgerTransaction {
	for _, tx := range e.transactions {
		if tx.ID() == id {
			return tx
		}
	}
	return nil
}

// applyTransactions validates and appends transactions, then recomputes the
// closing balance. It is all-or-nothing: on a validation failure nothing is
// appended.
func (e *LedgerEntry) applyTransactions(txs ...LedgerTransaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("invalid %s transaction on %v: %w", tx.Kind(), tx.When(), err)
		}
	}
	e.transactions = append(e.transactions, txs...)
	e.recompute()
	return nil
}

// removeTransaction removes a transaction by id and recomputes the balance
// from the remaining set. The owning line checks the lock state.
func (e *LedgerEntry) removeTransaction(id string) error {
	for i, tx := range e.transactions {
		if tx.ID() == id {
			e.transactions = append(e.transactions[:i], e.transactions[i+1:]...)
			e.recompute()
			return nil
		}
	}
	return fmt.Errorf("transaction %q %w in entry for %s", id, ErrNotFound, e.bucket)
}

// recompute applies the whole transaction set to the opening balance.
// The clamp is applied once over the period sum, so transaction order within
// a period cannot change the closing balance.
func (e *LedgerEntry) recompute() {
	e.balance = clampZero(e.opening.Add(e.NetAmount()))
}

// clampZero floors an envelope balance at zero. The overspent remainder is
// discarded, not carried as debt.
func clampZero(m Money) Money {
	if m.IsNegative() {
		return m.Zeroed()
	}
	return m
}

// MarshalJSON implements the json.Marshaler interface for LedgerEntry.
func (e *LedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.bucket)
	w.Append("opening", e.opening)
	w.Append("balance", e.balance)
	w.Append("transactions", e.transactions)
	return w.MarshalJSON()
}
