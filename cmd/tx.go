package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type txCmd struct {
	envelope  string
	amount    float64
	currency  string
	date      string
	narrative string
	remove    string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "add or remove a transaction on an envelope" }
func (*txCmd) Usage() string {
	return `ebb tx -envelope <code> -amount <amount> [-date <date>] -narrative <text>
ebb tx -envelope <code> -remove <id>

  Records a manual transaction against an envelope on the most recent
  reconciliation line: a credit when the amount is positive, a debit when
  negative. Useful for cash activity the statement will never show.
  With -remove, removes a transaction by id; the envelope balance is
  recomputed from the remaining transactions.

Usage Examples:
$ ebb tx -envelope POWER -amount -20 -narrative "cash top-up at the dairy"

`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.envelope, "envelope", "", "Bucket code of the envelope.")
	f.Float64Var(&p.amount, "amount", 0, "Signed amount: positive credit, negative debit.")
	f.StringVar(&p.currency, "currency", "NZD", "Currency of the amount.")
	f.StringVar(&p.date, "date", "", "Transaction date, defaults to the line's date.")
	f.StringVar(&p.narrative, "narrative", "", "What the transaction was for.")
	f.StringVar(&p.remove, "remove", "", "Id of a transaction to remove.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	bucket, ok := findEnvelope(book, p.envelope)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no envelope tracks %q\n", p.envelope)
		return subcommands.ExitFailure
	}

	if p.remove != "" {
		if err := line.RemoveTransaction(bucket, p.remove); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := EncodeBook(book); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Removed transaction %s from %s, balance is now %s\n",
			p.remove, bucket.Code, line.Entry(bucket).Balance())
		return subcommands.ExitSuccess
	}

	date := line.Date()
	if p.date != "" {
		if date, err = budget.ParseDate(p.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	amount := budget.M(p.amount, p.currency)
	var tx budget.LedgerTransaction
	if amount.IsNegative() {
		tx = budget.NewDebit(date, p.narrative, amount, "")
	} else {
		tx = budget.NewCredit(date, p.narrative, amount, "")
	}
	if err := line.AddTransaction(bucket, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s %s to %s, balance is now %s\n",
		tx.Kind(), amount.SignedString(), bucket.Code, line.Entry(bucket).Balance())
	return subcommands.ExitSuccess
}
