package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type reconcileCmd struct {
	date      string
	budget    string
	statement string
	currency  string
	force     bool
	balances  balanceFlags
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "build the next reconciliation line from bank balances, budget and statement"
}
func (*reconcileCmd) Usage() string {
	return `ebb reconcile -date <date> -budget <file> -statement <file> -balance <account>=<amount> [...]

  Carries every envelope's balance forward, credits the budgeted amounts and
  applies the period's statement transactions, then saves the book. The new
  line can still be corrected (adjust, transfer, tx, remark) until a later
  reconciliation supersedes it.

  Validation warnings (orphaned auto-matching references, short statement
  coverage) block the reconciliation unless -force is given.

Usage Examples:
$ ebb reconcile -date 2025-07-15 -budget budget.jsonl -statement july.jsonl -balance cheque=1234.50

`
}

func (p *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "date", "", "Reconciliation date (YYYY-MM-DD).")
	f.StringVar(&p.budget, "budget", "budget.jsonl", "Path to the budget file.")
	f.StringVar(&p.statement, "statement", "", "Path to the statement file for the period.")
	f.StringVar(&p.currency, "currency", "NZD", "Currency of the bank balances.")
	f.BoolVar(&p.force, "force", false, "Proceed despite validation warnings.")
	f.Var(&p.balances, "balance", "Bank balance as <account>=<amount>, repeatable. Use <account>:<type>=<amount> for an account the book does not know yet.")
}

func (p *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	date, err := budget.ParseDate(p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitFailure
	}
	model, err := DecodeBudgetFile(p.budget)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	statement, err := DecodeStatementFile(p.statement)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	bankBalances, err := p.balances.parse(book, p.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	line, err := book.Reconcile(date, bankBalances, model, statement, p.force)
	var vErr *budget.ValidationError
	if errors.As(err, &vErr) {
		fmt.Fprintln(os.Stderr, "Reconciliation blocked by warnings:")
		for _, msg := range vErr.Messages {
			fmt.Fprintf(os.Stderr, "  - %s\n", msg)
		}
		fmt.Fprintln(os.Stderr, "Re-run with -force to proceed anyway.")
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := EncodeBook(book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Reconciled %q on %s, surplus %s\n", book.Name(), line.Date(), line.CalculatedSurplus())
	printTasks(book)
	return subcommands.ExitSuccess
}

// balanceFlags collects repeated -balance values.
type balanceFlags []string

func (b *balanceFlags) String() string { return strings.Join(*b, ",") }

func (b *balanceFlags) Set(value string) error {
	*b = append(*b, value)
	return nil
}

// parse turns the raw <account>[:<type>]=<amount> values into bank balances,
// resolving known accounts from the book's envelope registry.
func (b balanceFlags) parse(book *budget.LedgerBook, currency string) ([]budget.BankBalance, error) {
	var balances []budget.BankBalance
	for _, raw := range b {
		name, amountStr, found := strings.Cut(raw, "=")
		if !found {
			return nil, fmt.Errorf("invalid balance %q, want <account>=<amount>", raw)
		}
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid balance amount in %q: %w", raw, err)
		}

		var account budget.Account
		if typed, typeName, ok := strings.Cut(name, ":"); ok {
			accountType, err := budget.ParseAccountType(typeName)
			if err != nil {
				return nil, fmt.Errorf("invalid balance %q: %w", raw, err)
			}
			account = budget.NewAccount(typed, accountType)
		} else {
			account, err = findAccount(book, name)
			if err != nil {
				return nil, err
			}
		}
		balances = append(balances, budget.NewBankBalance(account, budget.M(amount, currency)))
	}
	return balances, nil
}

// findAccount resolves an account by name from the envelope registry.
func findAccount(book *budget.LedgerBook, name string) (budget.Account, error) {
	for bucket := range book.Ledgers() {
		if bucket.Account.Name == name {
			return bucket.Account, nil
		}
	}
	return budget.Account{}, fmt.Errorf("account %q funds no envelope; declare it as <account>:<type>", name)
}
