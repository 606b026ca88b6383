package budget

import (
	"iter"
	"sort"
)

// StatementTransaction is one bank transaction as delivered by the external
// matching engine: the bucket code and any auto-matching reference have
// already been assigned upstream.
type StatementTransaction struct {
	ID         string
	Date       Date
	Amount     Money // signed: credit positive, debit negative
	Narrative  string
	BucketCode string
	Account    Account
	Reference  string
}

// StatementModel is an ordered, filterable collection of bank transactions
// covering the period since the previous reconciliation.
type StatementModel struct {
	transactions []StatementTransaction
}

// NewStatementModel creates a statement over the given transactions,
// chronologically ordered. The sort is stable: transactions on the same day
// keep their original relative order.
func NewStatementModel(txs ...StatementTransaction) *StatementModel {
	s := &StatementModel{transactions: txs}
	sort.SliceStable(s.transactions, func(i, j int) bool {
		return s.transactions[i].Date.Before(s.transactions[j].Date)
	})
	return s
}

// Transactions returns an iterator over the statement's transactions. When
// filters are given, a transaction is yielded if all of them accept it.
func (s *StatementModel) Transactions(filters ...func(StatementTransaction) bool) iter.Seq2[int, StatementTransaction] {
	return func(yield func(int, StatementTransaction) bool) {
		for i, tx := range s.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// ByBucket returns a predicate that filters statement transactions by bucket code.
func ByBucket(code string) func(StatementTransaction) bool {
	return func(tx StatementTransaction) bool { return tx.BucketCode == code }
}

// ByReference returns a predicate that filters statement transactions by
// auto-matching reference.
func ByReference(reference string) func(StatementTransaction) bool {
	return func(tx StatementTransaction) bool { return tx.Reference == reference }
}

// InWindow returns a predicate accepting transactions dated in
// [from, until): from inclusive, until exclusive. A transaction dated
// exactly on the previous reconciliation date belongs to the new period.
// A zero from accepts everything before until.
func InWindow(from, until Date) func(StatementTransaction) bool {
	return func(tx StatementTransaction) bool {
		if !from.IsZero() && tx.Date.Before(from) {
			return false
		}
		return tx.Date.Before(until)
	}
}

// HasReference reports whether any statement transaction carries the given
// auto-matching reference. The empty token never matches: it marks a
// transaction with no reference at all.
func (s *StatementModel) HasReference(reference string) bool {
	if reference == "" {
		return false
	}
	for range s.Transactions(ByReference(reference)) {
		return true
	}
	return false
}

// LastTransactionDate returns the date of the statement's latest
// transaction, or the zero date for an empty statement.
func (s *StatementModel) LastTransactionDate() Date {
	if len(s.transactions) == 0 {
		return Date{}
	}
	return s.transactions[len(s.transactions)-1].Date
}
