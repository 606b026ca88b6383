package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type adjustCmd struct {
	amount    float64
	currency  string
	account   string
	narrative string
	cancel    string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "add or cancel a balance adjustment" }
func (*adjustCmd) Usage() string {
	return `ebb adjust -amount <amount> -account <name> -narrative <text>
ebb adjust -cancel <id>

  Records a correction against the total bank balance on the most recent
  reconciliation line, for money the statement has not caught up with yet
  (a pending fee, a deposit in flight). The amount may be of either sign.
  With -cancel, removes a previously added adjustment by id.

Usage Examples:
$ ebb adjust -amount -2.50 -account cheque -narrative "bank fee not yet on statement"

`
}

func (p *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&p.amount, "amount", 0, "Signed adjustment amount.")
	f.StringVar(&p.currency, "currency", "NZD", "Currency of the amount.")
	f.StringVar(&p.account, "account", "", "Account the adjustment applies to.")
	f.StringVar(&p.narrative, "narrative", "", "Reason for the adjustment.")
	f.StringVar(&p.cancel, "cancel", "", "Id of an adjustment to cancel.")
}

func (p *adjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	line, err := book.UnlockMostRecentLine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.cancel != "" {
		if err := line.CancelBalanceAdjustment(p.cancel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := EncodeBook(book); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Cancelled balance adjustment %s\n", p.cancel)
		return subcommands.ExitSuccess
	}

	account, err := findAccount(book, p.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	adjustment, err := line.CreateBalanceAdjustment(budget.M(p.amount, p.currency), p.narrative, account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added balance adjustment %s: %s on %s\n", adjustment.ID(), adjustment.Amount().SignedString(), account)
	fmt.Printf("New surplus: %s\n", line.CalculatedSurplus())
	return subcommands.ExitSuccess
}
