package budget

import "testing"

var (
	testCheque  = NewAccount("cheque", ChequeAccount)
	testSavings = NewAccount("savings", SavingsAccount)
)

func nzd(v float64) Money { return M(v, "NZD") }

// newTestBook returns a book tracking POWER and INSURANCE, both funded from
// the cheque account.
func newTestBook(t *testing.T) (*LedgerBook, LedgerBucket, LedgerBucket) {
	t.Helper()
	book := NewLedgerBook("test budget", "test-key")
	power, err := book.AddLedger("POWER", testCheque)
	if err != nil {
		t.Fatalf("AddLedger(POWER) failed: %v", err)
	}
	insurance, err := book.AddLedger("INSURANCE", testCheque)
	if err != nil {
		t.Fatalf("AddLedger(INSURANCE) failed: %v", err)
	}
	return book, power, insurance
}

// testBudget returns a budget allocating the given monthly amounts.
func testBudget(effective Date, allocations map[string]Money) *BudgetModel {
	budget := NewBudgetModel(effective)
	for code, amount := range allocations {
		budget.SetAllocation(code, amount)
	}
	return budget
}

// mustReconcile reconciles with warnings ignored and fails the test on error.
func mustReconcile(t *testing.T, book *LedgerBook, date Date, balances []BankBalance, budget *BudgetModel, statement *StatementModel) *LedgerEntryLine {
	t.Helper()
	line, err := book.Reconcile(date, balances, budget, statement, true)
	if err != nil {
		t.Fatalf("Reconcile(%s) failed: %v", date, err)
	}
	return line
}

func chequeBalances(v float64) []BankBalance {
	return []BankBalance{NewBankBalance(testCheque, nzd(v))}
}
