package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type remarkCmd struct{}

func (*remarkCmd) Name() string     { return "remark" }
func (*remarkCmd) Synopsis() string { return "set the remarks on the most recent reconciliation" }
func (*remarkCmd) Usage() string {
	return `ebb remark <text...>

  Replaces the free-text remarks of the most recent reconciliation line.

Usage Examples:
$ ebb remark "July closed high because the insurance refund landed"

`
}

func (c *remarkCmd) SetFlags(f *flag.FlagSet) {}

func (c *remarkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := line.UpdateRemarks(strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated remarks on %s\n", line.Date())
	return subcommands.ExitSuccess
}
