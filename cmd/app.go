// Package cmd implements the CLI application to manage an envelope budget book.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&envelopeCmd{}, "book")
	c.Register(&fmtCmd{}, "book")
	c.Register(&showCmd{}, "book")

	c.Register(&reconcileCmd{}, "reconciliation")
	c.Register(&adjustCmd{}, "reconciliation")
	c.Register(&transferCmd{}, "reconciliation")
	c.Register(&txCmd{}, "reconciliation")
	c.Register(&remarkCmd{}, "reconciliation")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var bookFile = flag.String("book-file", "book.jsonl", "Path to the budget book file (JSONL format)")

// DecodeBook reads the app default book file.
func DecodeBook() (*budget.LedgerBook, error) {
	f, err := os.Open(*bookFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, book file does not exist, starting an empty book instead")
		name := strings.TrimSuffix(filepath.Base(*bookFile), filepath.Ext(*bookFile))
		return budget.NewLedgerBook(name, *bookFile), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open book file %q: %w", *bookFile, err)
	}
	defer f.Close()

	book, err := budget.DecodeLedgerBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not read book file %q: %w", *bookFile, err)
	}
	return book, nil
}

// EncodeBook writes the book back to the app default book file. A successful
// save locks the most recent line.
func EncodeBook(book *budget.LedgerBook) error {
	f, err := os.Create(*bookFile)
	if err != nil {
		return fmt.Errorf("could not create book file %q: %w", *bookFile, err)
	}
	defer f.Close()

	if err := budget.EncodeLedgerBook(f, book); err != nil {
		return fmt.Errorf("could not write book file %q: %w", *bookFile, err)
	}
	book.LockMostRecentLine()
	return nil
}

// DecodeBudgetFile reads a budget model from a JSONL file.
func DecodeBudgetFile(path string) (*budget.BudgetModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open budget file %q: %w", path, err)
	}
	defer f.Close()
	model, err := budget.DecodeBudget(f)
	if err != nil {
		return nil, fmt.Errorf("could not read budget file %q: %w", path, err)
	}
	return model, nil
}

// DecodeStatementFile reads a statement from a JSONL file.
func DecodeStatementFile(path string) (*budget.StatementModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open statement file %q: %w", path, err)
	}
	defer f.Close()
	statement, err := budget.DecodeStatement(f)
	if err != nil {
		return nil, fmt.Errorf("could not read statement file %q: %w", path, err)
	}
	return statement, nil
}

// printMarkdown renders markdown to the terminal with styling, falling back
// to the raw text when rendering fails (e.g. no TTY).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// printTasks lists the book's outstanding follow-up tasks, if any.
func printTasks(book *budget.LedgerBook) {
	var b strings.Builder
	for task := range book.Tasks() {
		if b.Len() == 0 {
			b.WriteString("## To Do\n\n")
		}
		fmt.Fprintf(&b, "- %s\n", task.Description)
	}
	if b.Len() > 0 {
		printMarkdown(b.String())
	}
}
