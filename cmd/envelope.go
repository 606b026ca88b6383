package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type envelopeCmd struct {
	account     string
	accountType string
	move        bool
}

func (*envelopeCmd) Name() string     { return "envelope" }
func (*envelopeCmd) Synopsis() string { return "track a new envelope, or re-point its funding account" }
func (*envelopeCmd) Usage() string {
	return `ebb envelope [-move] -account <name> [-type <type>] <code>

  Registers an envelope tracking the bucket <code>, funded from the given
  account. With -move, re-points an existing envelope to a new funding
  account instead; the balance carries over on the next reconciliation, and
  history keeps the account it was reconciled with.

Usage Examples:
$ ebb envelope -account cheque POWER
$ ebb envelope -move -account savings POWER

`
}

func (p *envelopeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.account, "account", "", "Funding account name.")
	f.StringVar(&p.accountType, "type", "cheque", "Account type (cheque, savings, credit).")
	f.BoolVar(&p.move, "move", false, "Re-point an existing envelope instead of adding one.")
}

func (p *envelopeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one bucket code is required")
		return subcommands.ExitUsageError
	}
	code := f.Arg(0)

	accountType, err := budget.ParseAccountType(p.accountType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	account := budget.NewAccount(p.account, accountType)

	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.move {
		current, ok := findEnvelope(book, code)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no envelope tracks %q\n", code)
			return subcommands.ExitFailure
		}
		moved, err := book.SetLedgerAccount(current, account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := EncodeBook(book); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Envelope %s now funded from %s\n", moved.Code, moved.Account)
		return subcommands.ExitSuccess
	}

	bucket, err := book.AddLedger(code, account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Tracking envelope %s\n", bucket)
	return subcommands.ExitSuccess
}

// findEnvelope looks up a tracked envelope by bucket code alone. Useful for
// commands where the funding account is what is being changed.
func findEnvelope(book *budget.LedgerBook, code string) (budget.LedgerBucket, bool) {
	for bucket := range book.Ledgers() {
		if bucket.Code == code {
			return bucket, true
		}
	}
	return budget.LedgerBucket{}, false
}
