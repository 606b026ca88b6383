package budget

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionKind is a typed string for identifying ledger transactions.
type TransactionKind string

// Transaction kinds recorded in a ledger entry line.
const (
	KindBudgetCredit      TransactionKind = "budget-credit"
	KindCredit            TransactionKind = "credit"
	KindDebit             TransactionKind = "debit"
	KindBalanceAdjustment TransactionKind = "balance-adjustment"
)

// LedgerTransaction defines the common interface for all transaction variants
// recorded against an envelope or a reconciliation line.
type LedgerTransaction interface {
	Kind() TransactionKind // Kind returns the transaction variant (e.g. "debit").
	ID() string            // ID returns the opaque unique identifier.
	When() Date            // When returns the date on which the transaction occurred.
	Amount() Money         // Amount is signed: credit positive, debit negative.
	Narrative() string
	Reference() string // Reference returns the auto-matching token, or "".
	Equal(LedgerTransaction) bool
	Validate() error
}

// baseTx carries the fields common to every transaction variant.
type baseTx struct {
	Id        string          `json:"id"`
	Command   TransactionKind `json:"kind"`
	Date      Date            `json:"date"`
	Sum       Money           `json:"amount"`
	Memo      string          `json:"narrative,omitempty"`
	AutoMatch string          `json:"reference,omitempty"`
}

func (t baseTx) Kind() TransactionKind { return t.Command }
func (t baseTx) ID() string            { return t.Id }
func (t baseTx) When() Date            { return t.Date }
func (t baseTx) Amount() Money         { return t.Sum }
func (t baseTx) Narrative() string     { return t.Memo }
func (t baseTx) Reference() string     { return t.AutoMatch }

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.Id)
	w.Append("kind", t.Command)
	w.Append("date", t.Date)
	w.Append("amount", t.Sum)
	w.Optional("narrative", t.Memo)
	w.Optional("reference", t.AutoMatch)
	return w.MarshalJSON()
}

func newBaseTx(kind TransactionKind, day Date, amount Money, narrative, reference string) baseTx {
	return baseTx{
		Id:        uuid.NewString(),
		Command:   kind,
		Date:      day,
		Sum:       amount,
		Memo:      narrative,
		AutoMatch: reference,
	}
}

// equalBase compares the common fields, amount by value.
func (t baseTx) equalBase(o baseTx) bool {
	return t.Id == o.Id && t.Command == o.Command && t.Date == o.Date &&
		t.Sum.Equal(o.Sum) && t.Memo == o.Memo && t.AutoMatch == o.AutoMatch
}

// BudgetCredit is the system-generated monthly allocation credited to an
// envelope by the reconciliation builder.
type BudgetCredit struct {
	baseTx
}

// NewBudgetCredit creates a new BudgetCredit transaction. The reference is
// the freshly generated auto-matching token, or "" when none is expected.
func NewBudgetCredit(day Date, narrative string, amount Money, reference string) BudgetCredit {
	return BudgetCredit{baseTx: newBaseTx(KindBudgetCredit, day, amount, narrative, reference)}
}

func (t BudgetCredit) Equal(other LedgerTransaction) bool {
	o, ok := other.(BudgetCredit)
	return ok && t.baseTx.equalBase(o.baseTx)
}

// Validate rejects a budget credit whose sign contradicts its direction.
func (t BudgetCredit) Validate() error {
	if t.Sum.IsNegative() {
		return fmt.Errorf("%w: budget credit amount must not be negative, got %s", ErrInvalidArgument, t.Sum)
	}
	return nil
}

// Credit is a manually or statement-derived funding event on an envelope.
type Credit struct {
	baseTx
}

// NewCredit creates a new Credit transaction.
func NewCredit(day Date, narrative string, amount Money, reference string) Credit {
	return Credit{baseTx: newBaseTx(KindCredit, day, amount, narrative, reference)}
}

func (t Credit) Equal(other LedgerTransaction) bool {
	o, ok := other.(Credit)
	return ok && t.baseTx.equalBase(o.baseTx)
}

// Validate rejects a credit whose sign contradicts its direction.
func (t Credit) Validate() error {
	if t.Sum.IsNegative() {
		return fmt.Errorf("%w: credit amount must not be negative, got %s", ErrInvalidArgument, t.Sum)
	}
	return nil
}

// Debit is a manually or statement-derived spending event on an envelope.
type Debit struct {
	baseTx
}

// NewDebit creates a new Debit transaction. The amount is the signed value
// recorded in the ledger, so it must not be positive.
func NewDebit(day Date, narrative string, amount Money, reference string) Debit {
	return Debit{baseTx: newBaseTx(KindDebit, day, amount, narrative, reference)}
}

func (t Debit) Equal(other LedgerTransaction) bool {
	o, ok := other.(Debit)
	return ok && t.baseTx.equalBase(o.baseTx)
}

// Validate rejects a debit whose sign contradicts its direction.
func (t Debit) Validate() error {
	if t.Sum.IsPositive() {
		return fmt.Errorf("%w: debit amount must not be positive, got %s", ErrInvalidArgument, t.Sum)
	}
	return nil
}

// BalanceAdjustment is a line-level correction against the total bank
// balance, tied to one account. It never belongs to an envelope entry.
type BalanceAdjustment struct {
	baseTx
	Account Account
}

// NewBalanceAdjustment creates a new BalanceAdjustment transaction.
func NewBalanceAdjustment(day Date, narrative string, amount Money, account Account) BalanceAdjustment {
	return BalanceAdjustment{
		baseTx:  newBaseTx(KindBalanceAdjustment, day, amount, narrative, ""),
		Account: account,
	}
}

func (t BalanceAdjustment) Equal(other LedgerTransaction) bool {
	o, ok := other.(BalanceAdjustment)
	return ok && t.baseTx.equalBase(o.baseTx) && t.Account == o.Account
}

// Validate checks the adjustment's fields. The amount may be of either sign
// but a zero adjustment corrects nothing.
func (t BalanceAdjustment) Validate() error {
	if t.Sum.IsZero() {
		return fmt.Errorf("%w: balance adjustment amount cannot be zero", ErrInvalidArgument)
	}
	if t.Account.IsZero() {
		return fmt.Errorf("%w: balance adjustment account is missing", ErrInvalidArgument)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for BalanceAdjustment.
func (t BalanceAdjustment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("account", t.Account)
	return w.MarshalJSON()
}

// newAutoMatchingReference generates a fresh correlation token linking a
// ledger-side expected transaction to a future bank-statement transaction.
func newAutoMatchingReference() string {
	return uuid.NewString()
}
