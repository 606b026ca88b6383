package renderer

import "github.com/etnz/budget"

// LineReport is the view model for a single reconciliation line: the bank
// balance snapshots, one block per envelope with its transactions, the
// balance adjustments and the derived totals.
type LineReport struct {
	// Date of the reconciliation.
	Date budget.Date `json:"date"`
	// State is "new" while the line is still mutable.
	State string `json:"state"`
	// Remarks is the free-text note attached to the line.
	Remarks string `json:"remarks,omitempty"`
	// BankBalances are the per-account snapshots taken on the date.
	BankBalances []BankBalanceRow `json:"bankBalances"`
	// Entries hold one block per envelope.
	Entries []EntryBlock `json:"entries"`
	// Adjustments are the line-level corrections.
	Adjustments []AdjustmentRow `json:"adjustments,omitempty"`

	// TotalBankBalance is the sum of the bank snapshots.
	TotalBankBalance budget.Money `json:"totalBankBalance"`
	// TotalAdjustments is the signed sum of the balance adjustments.
	TotalAdjustments budget.Money `json:"totalAdjustments"`
	// LedgerBalance is the sum of envelope balances plus adjustments.
	LedgerBalance budget.Money `json:"ledgerBalance"`
	// Surplus is the adjusted bank total minus all envelope balances.
	Surplus budget.Money `json:"surplus"`
}

// BankBalanceRow is one account snapshot.
type BankBalanceRow struct {
	Account string       `json:"account"`
	Type    string       `json:"type,omitempty"`
	Balance budget.Money `json:"balance"`
}

// EntryBlock is one envelope's state for the period.
type EntryBlock struct {
	Code         string           `json:"code"`
	Account      string           `json:"account"`
	Opening      budget.Money     `json:"opening"`
	Net          budget.Money     `json:"net"`
	Balance      budget.Money     `json:"balance"`
	Transactions []TransactionRow `json:"transactions"`
}

// TransactionRow is one ledger transaction inside an envelope block.
type TransactionRow struct {
	Date      budget.Date  `json:"date"`
	Kind      string       `json:"kind"`
	Amount    budget.Money `json:"amount"`
	Narrative string       `json:"narrative,omitempty"`
	Reference string       `json:"reference,omitempty"`
}

// AdjustmentRow is one line-level balance adjustment.
type AdjustmentRow struct {
	Account   string       `json:"account"`
	Amount    budget.Money `json:"amount"`
	Narrative string       `json:"narrative,omitempty"`
}

// NewLineReport creates a LineReport from a reconciliation line.
func NewLineReport(line *budget.LedgerEntryLine) *LineReport {
	r := &LineReport{
		Date:             line.Date(),
		State:            line.State().String(),
		Remarks:          line.Remarks(),
		BankBalances:     make([]BankBalanceRow, 0),
		Entries:          make([]EntryBlock, 0),
		TotalBankBalance: line.TotalBankBalance(),
		TotalAdjustments: line.TotalBalanceAdjustments(),
		LedgerBalance:    line.LedgerBalance(),
		Surplus:          line.CalculatedSurplus(),
	}

	for balance := range line.BankBalances() {
		r.BankBalances = append(r.BankBalances, BankBalanceRow{
			Account: balance.Account.Name,
			Type:    string(balance.Account.Type),
			Balance: balance.Balance,
		})
	}

	for entry := range line.Entries() {
		block := EntryBlock{
			Code:         entry.Bucket().Code,
			Account:      entry.Bucket().Account.Name,
			Opening:      entry.Opening(),
			Net:          entry.NetAmount(),
			Balance:      entry.Balance(),
			Transactions: make([]TransactionRow, 0),
		}
		for _, tx := range entry.Transactions() {
			block.Transactions = append(block.Transactions, TransactionRow{
				Date:      tx.When(),
				Kind:      string(tx.Kind()),
				Amount:    tx.Amount(),
				Narrative: tx.Narrative(),
				Reference: tx.Reference(),
			})
		}
		r.Entries = append(r.Entries, block)
	}

	for adjustment := range line.Adjustments() {
		r.Adjustments = append(r.Adjustments, AdjustmentRow{
			Account:   adjustment.Account.Name,
			Amount:    adjustment.Amount(),
			Narrative: adjustment.Narrative(),
		})
	}
	return r
}
