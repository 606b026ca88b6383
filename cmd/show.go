package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/budget"
	"github.com/etnz/budget/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	date    string
	compact bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the book, or one reconciliation in detail" }
func (*showCmd) Usage() string {
	return `ebb show [-date <date>] [-compact]

  Without -date, shows the whole book: envelopes, reconciliation history and
  outstanding tasks. With -date, shows that reconciliation line in detail.

Usage Examples:
$ ebb show
$ ebb show -date 2025-07-15
$ ebb show -date 2025-07-15 -compact

`
}

func (p *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "date", "", "Date of the reconciliation line to show.")
	f.BoolVar(&p.compact, "compact", false, "Envelope balances only, without the per-transaction detail.")
}

func (p *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.date == "" {
		printMarkdown(renderer.RenderBook(renderer.NewBookReport(book)))
		return subcommands.ExitSuccess
	}

	date, err := budget.ParseDate(p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitFailure
	}
	for line := range book.Reconciliations() {
		if line.Date() == date {
			opts := renderer.LineRenderOptions{SkipTransactions: p.compact}
			printMarkdown(renderer.RenderLine(renderer.NewLineReport(line), opts))
			return subcommands.ExitSuccess
		}
	}
	fmt.Fprintf(os.Stderr, "Error: no reconciliation on %s\n", date)
	return subcommands.ExitFailure
}
