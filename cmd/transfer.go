package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type transferCmd struct {
	from      string
	to        string
	amount    float64
	currency  string
	narrative string
	bank      bool
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move funds between two envelopes" }
func (*transferCmd) Usage() string {
	return `ebb transfer -from <code> -to <code> -amount <amount> -narrative <text> [-bank]

  Moves funds between two envelopes on the most recent reconciliation line, as
  a paired debit and credit. The source may be drained to exactly zero,
  never below. When the envelopes are funded from different accounts (or
  -bank is given), paired balance adjustments record the required bank-side
  transfer under a shared auto-matching reference.

Usage Examples:
$ ebb transfer -from CAR -to HOLIDAY -amount 50 -narrative "top up holiday fund"

`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.from, "from", "", "Source envelope bucket code.")
	f.StringVar(&p.to, "to", "", "Destination envelope bucket code.")
	f.Float64Var(&p.amount, "amount", 0, "Amount to transfer.")
	f.StringVar(&p.currency, "currency", "NZD", "Currency of the amount.")
	f.StringVar(&p.narrative, "narrative", "", "Narrative shared by both legs.")
	f.BoolVar(&p.bank, "bank", false, "Force paired balance adjustments for the bank-side movement.")
}

func (p *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// correction commands apply to the most recent line only; a saved book
	// always comes back locked, so reopen the head.
	line, err := book.UnlockMostRecentLine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	from, ok := findEnvelope(book, p.from)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no envelope tracks %q\n", p.from)
		return subcommands.ExitFailure
	}
	to, ok := findEnvelope(book, p.to)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no envelope tracks %q\n", p.to)
		return subcommands.ExitFailure
	}

	cmd := budget.TransferFundsCommand{
		FromLedger:           from,
		ToLedger:             to,
		Amount:               budget.M(p.amount, p.currency),
		Narrative:            p.narrative,
		BankTransferRequired: p.bank,
	}
	if err := budget.TransferFunds(cmd, line); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Transferred %s from %s to %s\n", cmd.Amount, from.Code, to.Code)
	return subcommands.ExitSuccess
}
