package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the book file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ebb fmt

  Validates and rewrites the book file. This command reads the whole book,
  re-verifying every entry balance against its transactions, and writes it
  back in canonical JSONL form with stable field order.

Usage Examples:
$ ebb fmt

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Formatted %q\n", book.Name())
	return subcommands.ExitSuccess
}
