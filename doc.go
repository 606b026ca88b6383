// Package budget implements an envelope-budget ledger book and its
// reconciliation engine.
//
// The book keeps an append-only history of reconciliations. Each
// reconciliation (a LedgerEntryLine) snapshots the bank balances on a date
// and carries one LedgerEntry per tracked envelope (a LedgerBucket: a budget
// bucket code paired with the bank account that funds it). The engine turns
// the previous reconciliation, a budget and a period's bank statement into
// the next line, preserving monetary correctness across months: envelope
// balances carry forward, are credited with their budgeted amount, absorb
// the period's matched statement transactions, and never go negative.
//
// Once a line is persisted it is locked and becomes immutable history; only
// the most recent line can be unlocked for corrections (balance adjustments,
// inter-envelope transfers, remarks).
//
// Apart from its own JSONL codec the package performs no I/O: budgets,
// statements and matching rules are external collaborators handed in by the
// caller.
package budget
