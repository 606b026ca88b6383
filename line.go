package budget

import (
	"fmt"
	"iter"
)

// LineState models the lock state of a reconciliation line.
//
// A line is New while it is the most recent, not-yet-persisted
// reconciliation; it becomes Locked once saved and never transitions back
// except through LedgerBook.UnlockMostRecentLine.
type LineState int

const (
	StateNew LineState = iota
	StateLocked
)

func (s LineState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// LedgerEntryLine is one full reconciliation event: a dated set of bank
// balance snapshots, one ledger entry per tracked envelope, the line-level
// balance adjustments, and free-text remarks.
//
// All derived values are recomputed on read; nothing is cached.
type LedgerEntryLine struct {
	date         Date
	bankBalances []BankBalance
	entries      []*LedgerEntry
	adjustments  []BalanceAdjustment
	remarks      string
	state        LineState
}

func newLedgerEntryLine(date Date, bankBalances []BankBalance) *LedgerEntryLine {
	// The snapshots are copied; a caller reusing its slice cannot rewrite
	// the line afterwards.
	balances := make([]BankBalance, len(bankBalances))
	copy(balances, bankBalances)
	return &LedgerEntryLine{
		date:         date,
		bankBalances: balances,
		state:        StateNew,
	}
}

// Date returns the reconciliation date. Dates are unique and strictly
// increasing across the book.
func (l *LedgerEntryLine) Date() Date { return l.date }

// State returns the lock state of the line.
func (l *LedgerEntryLine) State() LineState { return l.state }

// IsNew reports whether the line is still mutable.
func (l *LedgerEntryLine) IsNew() bool { return l.state == StateNew }

// Remarks returns the free-text remarks attached to the line.
func (l *LedgerEntryLine) Remarks() string { return l.remarks }

// lock transitions the line to its immutable state. Idempotent.
func (l *LedgerEntryLine) lock() { l.state = StateLocked }

// unlock transitions the line back to the mutable state. Only the book may
// call it, and only on the head line.
func (l *LedgerEntryLine) unlock() { l.state = StateNew }

// checkMutable refuses any mutation once the line is locked.
func (l *LedgerEntryLine) checkMutable() error {
	if l.state != StateNew {
		return fmt.Errorf("%w: reconciliation line %s is locked", ErrInvalidState, l.date)
	}
	return nil
}

// BankBalances returns an iterator over the line's bank balance snapshots.
func (l *LedgerEntryLine) BankBalances() iter.Seq[BankBalance] {
	return func(yield func(BankBalance) bool) {
		for _, b := range l.bankBalances {
			if !yield(b) {
				return
			}
		}
	}
}

// Entries returns an iterator over the line's ledger entries, one per
// envelope tracked at reconciliation time.
func (l *LedgerEntryLine) Entries() iter.Seq[*LedgerEntry] {
	return func(yield func(*LedgerEntry) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Entry returns the entry for the given envelope, or nil.
func (l *LedgerEntryLine) Entry(bucket LedgerBucket) *LedgerEntry {
	for _, e := range l.entries {
		if e.bucket == bucket {
			return e
		}
	}
	return nil
}

// entryByCode returns the first entry whose bucket code matches, regardless
// of the funding account.
func (l *LedgerEntryLine) entryByCode(code string) *LedgerEntry {
	for _, e := range l.entries {
		if e.bucket.Code == code {
			return e
		}
	}
	return nil
}

// Adjustments returns an iterator over the line's balance adjustments.
func (l *LedgerEntryLine) Adjustments() iter.Seq[BalanceAdjustment] {
	return func(yield func(BalanceAdjustment) bool) {
		for _, a := range l.adjustments {
			if !yield(a) {
				return
			}
		}
	}
}

// TotalBankBalance returns the sum of the bank balance snapshots.
func (l *LedgerEntryLine) TotalBankBalance() Money {
	var sum Money
	for _, b := range l.bankBalances {
		sum = sum.Add(b.Balance)
	}
	return sum
}

// TotalBalanceAdjustments returns the signed sum of the line's adjustments.
func (l *LedgerEntryLine) TotalBalanceAdjustments() Money {
	var sum Money
	for _, a := range l.adjustments {
		sum = sum.Add(a.Amount())
	}
	return sum
}

// totalEntryBalances returns the sum of all envelope closing balances.
func (l *LedgerEntryLine) totalEntryBalances() Money {
	var sum Money
	for _, e := range l.entries {
		sum = sum.Add(e.Balance())
	}
	return sum
}

// LedgerBalance returns the sum of all envelope balances plus the balance
// adjustments.
func (l *LedgerEntryLine) LedgerBalance() Money {
	return l.totalEntryBalances().Add(l.TotalBalanceAdjustments())
}

// CalculatedSurplus returns the residual funds not allocated to any tracked
// envelope: the adjusted total bank balance minus all envelope balances.
func (l *LedgerEntryLine) CalculatedSurplus() Money {
	return l.TotalBankBalance().Add(l.TotalBalanceAdjustments()).Sub(l.totalEntryBalances())
}

// CreateBalanceAdjustment appends a line-level correction against the total
// bank balance, tied to an account. It fails if the line is locked.
func (l *LedgerEntryLine) CreateBalanceAdjustment(amount Money, narrative string, account Account) (BalanceAdjustment, error) {
	if err := l.checkMutable(); err != nil {
		return BalanceAdjustment{}, err
	}
	adjustment := NewBalanceAdjustment(l.date, narrative, amount, account)
	if err := adjustment.Validate(); err != nil {
		return BalanceAdjustment{}, err
	}
	l.adjustments = append(l.adjustments, adjustment)
	return adjustment, nil
}

// CancelBalanceAdjustment removes a previously added adjustment by id.
func (l *LedgerEntryLine) CancelBalanceAdjustment(id string) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	for i, a := range l.adjustments {
		if a.ID() == id {
			l.adjustments = append(l.adjustments[:i], l.adjustments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("balance adjustment %q %w on line %s", id, ErrNotFound, l.date)
}

// UpdateRemarks replaces the line's free-text remarks. Allowed only while
// the line is unlocked.
func (l *LedgerEntryLine) UpdateRemarks(remarks string) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	l.remarks = remarks
	return nil
}

// AddTransaction validates and appends a transaction to the entry of the
// given envelope. It fails if the line is locked or the envelope has no
// entry on this line.
func (l *LedgerEntryLine) AddTransaction(bucket LedgerBucket, tx LedgerTransaction) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	entry := l.Entry(bucket)
	if entry == nil {
		return fmt.Errorf("entry for %s %w on line %s", bucket, ErrNotFound, l.date)
	}
	return entry.applyTransactions(tx)
}

// RemoveTransaction removes a transaction by id from the entry of the given
// envelope, recomputing its balance from the remaining transaction set.
func (l *LedgerEntryLine) RemoveTransaction(bucket LedgerBucket, id string) error {
	if err := l.checkMutable(); err != nil {
		return err
	}
	entry := l.Entry(bucket)
	if entry == nil {
		return fmt.Errorf("entry for %s %w on line %s", bucket, ErrNotFound, l.date)
	}
	return entry.removeTransaction(id)
}

// MarshalJSON implements the json.Marshaler interface for LedgerEntryLine.
// The lock state is not persisted: it is inferred from the line's position
// in the book when decoding.
func (l *LedgerEntryLine) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", l.date)
	w.Optional("remarks", l.remarks)
	w.Append("bankBalances", l.bankBalances)
	if len(l.adjustments) > 0 {
		w.Append("adjustments", l.adjustments)
	}
	w.Append("entries", l.entries)
	return w.MarshalJSON()
}
