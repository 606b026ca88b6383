package budget

import "fmt"

// TransferFundsCommand describes a movement of funds between two envelopes
// within the same, currently unlocked, reconciliation line.
type TransferFundsCommand struct {
	FromLedger LedgerBucket
	ToLedger   LedgerBucket
	Amount     Money
	Narrative  string
	// BankTransferRequired forces the paired balance adjustments recording
	// the bank-side movement. It is implied when the two envelopes are
	// funded from different accounts.
	BankTransferRequired bool
}

// Validate checks the command's fields.
func (c TransferFundsCommand) Validate() error {
	if c.FromLedger == c.ToLedger {
		return fmt.Errorf("%w: source and destination are the same envelope %s", ErrInvalidArgument, c.FromLedger)
	}
	if !c.Amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive, got %s", ErrInvalidArgument, c.Amount)
	}
	if c.Narrative == "" {
		return fmt.Errorf("%w: transfer narrative is missing", ErrInvalidArgument)
	}
	return nil
}

// TransferFunds moves the amount between the two envelopes' entries on the
// given line, as a paired debit/credit with a linked narrative. The source
// balance may be driven to exactly zero, never below. When the envelopes are
// funded from different accounts (or the command demands it), matching
// balance adjustments record the required bank-side transfer.
func TransferFunds(cmd TransferFundsCommand, line *LedgerEntryLine) error {
	if line == nil {
		return fmt.Errorf("%w: reconciliation line is missing", ErrInvalidArgument)
	}
	if err := line.checkMutable(); err != nil {
		return err
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	source := line.Entry(cmd.FromLedger)
	if source == nil {
		return fmt.Errorf("entry for %s %w on line %s", cmd.FromLedger, ErrNotFound, line.date)
	}
	destination := line.Entry(cmd.ToLedger)
	if destination == nil {
		return fmt.Errorf("entry for %s %w on line %s", cmd.ToLedger, ErrNotFound, line.date)
	}
	if source.Balance().LessThan(cmd.Amount) {
		return fmt.Errorf("%w: cannot transfer %s from %s, balance is %s", ErrInvalidArgument, cmd.Amount, cmd.FromLedger, source.Balance())
	}

	bankTransfer := cmd.BankTransferRequired || cmd.FromLedger.Account != cmd.ToLedger.Account
	// Both adjustment accounts are checked up front so a failure cannot
	// leave the legs applied without their bank-side record.
	if bankTransfer && (cmd.FromLedger.Account.IsZero() || cmd.ToLedger.Account.IsZero()) {
		return fmt.Errorf("%w: a bank transfer needs both envelopes funded from a named account", ErrInvalidArgument)
	}
	reference := ""
	if bankTransfer {
		reference = newAutoMatchingReference()
	}

	if err := source.applyTransactions(NewDebit(line.date, cmd.Narrative, cmd.Amount.Neg(), reference)); err != nil {
		return err
	}
	if err := destination.applyTransactions(NewCredit(line.date, cmd.Narrative, cmd.Amount, reference)); err != nil {
		return err
	}

	if bankTransfer {
		if _, err := line.CreateBalanceAdjustment(cmd.Amount.Neg(), cmd.Narrative, cmd.FromLedger.Account); err != nil {
			return err
		}
		if _, err := line.CreateBalanceAdjustment(cmd.Amount, cmd.Narrative, cmd.ToLedger.Account); err != nil {
			return err
		}
	}
	return nil
}
