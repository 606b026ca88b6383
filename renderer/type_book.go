package renderer

import "github.com/etnz/budget"

// BookReport is the view model for a whole-book report: the envelope
// registry, one summary row per reconciliation, and the outstanding tasks.
// Monetary fields keep the exact Money type so templates get its formatting
// for free.
type BookReport struct {
	// Name of the book.
	Name string `json:"name"`
	// Envelopes is the registry of tracked envelopes, in stable order.
	Envelopes []EnvelopeRow `json:"envelopes"`
	// History holds one row per reconciliation, newest first.
	History []HistoryRow `json:"history"`
	// Tasks are the outstanding follow-up reminders.
	Tasks []TaskRow `json:"tasks,omitempty"`
}

// EnvelopeRow is one tracked envelope.
type EnvelopeRow struct {
	Code    string `json:"code"`
	Account string `json:"account"`
	Type    string `json:"type,omitempty"`
}

// HistoryRow summarizes one reconciliation line.
type HistoryRow struct {
	Date          budget.Date  `json:"date"`
	State         string       `json:"state"`
	BankBalance   budget.Money `json:"bankBalance"`
	LedgerBalance budget.Money `json:"ledgerBalance"`
	Surplus       budget.Money `json:"surplus"`
	Entries       int          `json:"entries"`
}

// TaskRow is one follow-up task.
type TaskRow struct {
	Description string `json:"description"`
	Reference   string `json:"reference,omitempty"`
}

// NewBookReport creates a BookReport from a book. It populates the struct
// with all the data the book report templates need.
func NewBookReport(b *budget.LedgerBook) *BookReport {
	r := &BookReport{
		Name:      b.Name(),
		Envelopes: make([]EnvelopeRow, 0),
		History:   make([]HistoryRow, 0),
	}

	for bucket := range b.Ledgers() {
		r.Envelopes = append(r.Envelopes, EnvelopeRow{
			Code:    bucket.Code,
			Account: bucket.Account.Name,
			Type:    string(bucket.Account.Type),
		})
	}

	for line := range b.Reconciliations() {
		entries := 0
		for range line.Entries() {
			entries++
		}
		r.History = append(r.History, HistoryRow{
			Date:          line.Date(),
			State:         line.State().String(),
			BankBalance:   line.TotalBankBalance(),
			LedgerBalance: line.LedgerBalance(),
			Surplus:       line.CalculatedSurplus(),
			Entries:       entries,
		})
	}

	for task := range b.Tasks() {
		r.Tasks = append(r.Tasks, TaskRow{
			Description: task.Description,
			Reference:   task.Reference,
		})
	}
	return r
}
