package budget

import (
	"fmt"
	"log"
)

// Reconcile builds the next reconciliation line from the supplied bank
// balances, the budget effective at the date, and the period's statement,
// then appends it to the book and returns it.
//
// The operation is all-or-nothing: structural errors and, unless
// ignoreWarnings is set, aggregated validation warnings leave the book
// unchanged. Follow-up tasks raised while building are recorded on the book.
func (b *LedgerBook) Reconcile(date Date, bankBalances []BankBalance, budget *BudgetModel, statement *StatementModel, ignoreWarnings bool) (*LedgerEntryLine, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: reconciliation date is missing", ErrInvalidArgument)
	}
	if len(bankBalances) == 0 {
		return nil, fmt.Errorf("%w: at least one bank balance is required", ErrInvalidArgument)
	}
	if budget == nil {
		return nil, fmt.Errorf("%w: budget is missing", ErrInvalidArgument)
	}
	if statement == nil {
		return nil, fmt.Errorf("%w: statement is missing", ErrInvalidArgument)
	}
	if head := b.MostRecentLine(); head != nil {
		if head.date == date {
			return nil, fmt.Errorf("a reconciliation for %s %w", date, ErrDuplicate)
		}
		if date.Before(head.date) {
			return nil, fmt.Errorf("%w: reconciliation date %s must be after the most recent line %s", ErrInvalidArgument, date, head.date)
		}
	}

	if !ignoreWarnings {
		var warnings []string
		warnings = append(warnings, ValidateAgainstOrphanedAutoMatchingTransactions(b, statement)...)
		warnings = append(warnings, validateStatementCoverage(date, statement)...)
		if len(warnings) > 0 {
			return nil, &ValidationError{Messages: warnings}
		}
	}

	builder := reconciliationBuilder{
		book:      b,
		date:      date,
		balances:  bankBalances,
		budget:    budget,
		statement: statement,
	}
	line := builder.build()

	b.appendLine(line)
	b.addTasks(builder.tasks...)
	log.Printf("%v: reconciled %q, %d entries, surplus %s", date, b.name, len(line.entries), line.CalculatedSurplus())
	return line, nil
}

// reconciliationBuilder assembles one new LedgerEntryLine carried forward
// from the previous one. It is pure over in-memory state: no I/O, no
// cancellation, and it mutates nothing until the book appends the result.
type reconciliationBuilder struct {
	book      *LedgerBook
	date      Date
	balances  []BankBalance
	budget    *BudgetModel
	statement *StatementModel

	tasks []ToDoTask
}

func (rb *reconciliationBuilder) build() *LedgerEntryLine {
	previous := rb.book.MostRecentLine()

	// Period window: [previous date, new date). A transaction dated exactly
	// on the previous reconciliation date belongs to this new period.
	var windowStart Date
	if previous != nil {
		windowStart = previous.date
	}

	line := newLedgerEntryLine(rb.date, rb.balances)
	for bucket := range rb.book.Ledgers() {
		entry := newLedgerEntry(bucket, rb.openingBalance(previous, bucket))
		rb.addBudgetCredit(entry)
		line.entries = append(line.entries, entry)
	}
	rb.addStatementTransactions(line, windowStart)
	rb.findDuplicateStatementTransactions(windowStart)
	return line
}

// openingBalance carries forward the closing balance of the envelope's entry
// in the previous line, zero on the envelope's first appearance. An envelope
// moved to a different funding account still carries its code's balance: its
// previous entry sits under a bucket that is no longer registered. A new
// envelope merely sharing a code with a live sibling opens at zero.
func (rb *reconciliationBuilder) openingBalance(previous *LedgerEntryLine, bucket LedgerBucket) Money {
	if previous == nil {
		return Money{}
	}
	if entry := previous.Entry(bucket); entry != nil {
		return entry.Balance()
	}
	for _, e := range previous.entries {
		if e.bucket.Code != bucket.Code {
			continue
		}
		if _, registered := rb.book.Ledger(e.bucket.Code, e.bucket.Account); !registered {
			return e.Balance()
		}
	}
	return Money{}
}

// addBudgetCredit credits the envelope with its budgeted monthly amount and
// raises a task so a matching rule can be created for the expected bank-side
// transaction.
func (rb *reconciliationBuilder) addBudgetCredit(entry *LedgerEntry) {
	amount, ok := rb.budget.Allocation(entry.bucket.Code)
	if !ok || amount.IsZero() {
		return
	}
	reference := newAutoMatchingReference()
	credit := NewBudgetCredit(rb.date, "Budgeted Amount", amount, reference)
	if err := entry.applyTransactions(credit); err != nil {
		// A negative allocation is a budget authoring mistake; surface it as
		// a task rather than losing the whole reconciliation.
		rb.tasks = append(rb.tasks, newTaskf("", "budgeted amount for %s was not applied: %v", entry.bucket.Code, err))
		return
	}
	rb.tasks = append(rb.tasks, newTaskf(reference,
		"Budgeted amount for %s carries new auto-matching reference %s; create a rule for the expected bank transaction.",
		entry.bucket.Code, reference))
}

// addStatementTransactions routes each of the period's matched statement
// transactions to exactly one entry, preserving amount, narrative and
// reference. A transaction whose bucket code the book does not track is
// skipped: the matching engine may cover more buckets than this book.
func (rb *reconciliationBuilder) addStatementTransactions(line *LedgerEntryLine, windowStart Date) {
	for _, st := range rb.statement.Transactions(InWindow(windowStart, rb.date)) {
		if st.BucketCode == "" {
			continue
		}
		entry := routeStatementTransaction(line, st)
		if entry == nil {
			if line.entryByCode(st.BucketCode) != nil {
				rb.tasks = append(rb.tasks, newTaskf(st.Reference,
					"statement transaction %q on %s matches several envelopes tracking %s but none funded from %s; assign it manually",
					st.Narrative, st.Date, st.BucketCode, st.Account))
			}
			continue
		}
		var tx LedgerTransaction
		if st.Amount.IsNegative() {
			tx = NewDebit(st.Date, st.Narrative, st.Amount, st.Reference)
		} else {
			tx = NewCredit(st.Date, st.Narrative, st.Amount, st.Reference)
		}
		if err := entry.applyTransactions(tx); err != nil {
			rb.tasks = append(rb.tasks, newTaskf(st.Reference, "statement transaction %q was not applied to %s: %v", st.Narrative, entry.bucket.Code, err))
		}
	}
}

// routeStatementTransaction picks the single entry a statement transaction
// lands in. With one envelope tracking the code the account is not
// consulted; with several, the transaction's bank account decides.
func routeStatementTransaction(line *LedgerEntryLine, st StatementTransaction) *LedgerEntry {
	var candidates []*LedgerEntry
	for _, e := range line.entries {
		if e.bucket.Code == st.BucketCode {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, e := range candidates {
		if e.bucket.Account == st.Account {
			return e
		}
	}
	return nil
}

// findDuplicateStatementTransactions raises a task for statement
// transactions appearing more than once in the period with the same date,
// amount and narrative, usually a double import upstream.
func (rb *reconciliationBuilder) findDuplicateStatementTransactions(windowStart Date) {
	seen := make(map[string]int)
	for _, st := range rb.statement.Transactions(InWindow(windowStart, rb.date)) {
		key := st.Date.String() + "|" + st.Amount.String() + "|" + st.Narrative
		seen[key]++
		if seen[key] == 2 {
			rb.tasks = append(rb.tasks, newTaskf(st.Reference,
				"possible duplicate statement transaction on %s: %s %q", st.Date, st.Amount, st.Narrative))
		}
	}
}

// validateStatementCoverage warns when the statement's transactions stop
// well before the reconciliation date, suggesting the statement was not
// refreshed for the whole period.
func validateStatementCoverage(date Date, statement *StatementModel) []string {
	last := statement.LastTransactionDate()
	if last.IsZero() || !last.Before(date.Add(-1)) {
		return nil
	}
	return []string{fmt.Sprintf("statement ends on %s, more than one day before the reconciliation date %s; it may not cover the whole period", last, date)}
}
