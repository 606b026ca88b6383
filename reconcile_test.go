package budget

import (
	"errors"
	"strings"
	"testing"
)

func TestReconcile_CarriesBalancesForward(t *testing.T) {
	book, power, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), map[string]Money{"POWER": nzd(140)})

	june := mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel())
	if got := june.Entry(power).Balance(); !got.Equal(nzd(140)) {
		t.Fatalf("POWER balance after first reconciliation = %s, want 140", got)
	}

	statement := NewStatementModel(StatementTransaction{
		ID:         "st-1",
		Date:       MustParse("2025-07-02"),
		Amount:     nzd(-123.56),
		Narrative:  "CONTACT ENERGY",
		BucketCode: "POWER",
		Account:    testCheque,
	})
	july := mustReconcile(t, book, MustParse("2025-07-15"), chequeBalances(1100), budget, statement)

	entry := july.Entry(power)
	if !entry.Opening().Equal(nzd(140)) {
		t.Errorf("POWER opening = %s, want the June closing balance 140", entry.Opening())
	}
	// 140 carried + 140 budgeted - 123.56 spent.
	if !entry.Balance().Equal(nzd(156.44)) {
		t.Errorf("POWER balance = %s, want 156.44", entry.Balance())
	}
}

func TestReconcile_OverspendClampsToZero(t *testing.T) {
	book, power, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), map[string]Money{"POWER": nzd(140)})

	statement := NewStatementModel(StatementTransaction{
		ID:         "st-1",
		Date:       MustParse("2025-06-10"),
		Amount:     nzd(-200),
		Narrative:  "CONTACT ENERGY",
		BucketCode: "POWER",
		Account:    testCheque,
	})
	line := mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, statement)

	// 0 + 140 - 200 floors at zero; the -60 remainder is discarded.
	if got := line.Entry(power).Balance(); !got.IsZero() {
		t.Errorf("POWER balance = %s, want 0", got)
	}
	next := mustReconcile(t, book, MustParse("2025-07-15"), chequeBalances(1000), budget, NewStatementModel())
	if got := next.Entry(power).Opening(); !got.IsZero() {
		t.Errorf("next period opening = %s, want 0, overspend must not carry as debt", got)
	}
}

func TestReconcile_PeriodWindowBoundaries(t *testing.T) {
	book, power, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), nil)

	mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel())

	statement := NewStatementModel(
		// dated exactly on the previous reconciliation: belongs to this period.
		StatementTransaction{ID: "on-start", Date: MustParse("2025-06-15"), Amount: nzd(-10), Narrative: "boundary start", BucketCode: "POWER", Account: testCheque},
		StatementTransaction{ID: "inside", Date: MustParse("2025-07-01"), Amount: nzd(-20), Narrative: "inside", BucketCode: "POWER", Account: testCheque},
		// dated on the new reconciliation date: belongs to the next period.
		StatementTransaction{ID: "on-end", Date: MustParse("2025-07-15"), Amount: nzd(-40), Narrative: "boundary end", BucketCode: "POWER", Account: testCheque},
	)
	july := mustReconcile(t, book, MustParse("2025-07-15"), chequeBalances(1000), budget, statement)

	var narratives []string
	for _, tx := range july.Entry(power).Transactions() {
		narratives = append(narratives, tx.Narrative())
	}
	if len(narratives) != 2 || narratives[0] != "boundary start" || narratives[1] != "inside" {
		t.Errorf("period transactions = %v, want [boundary start, inside]", narratives)
	}
}

func TestReconcile_StructuralErrors(t *testing.T) {
	book, _, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), nil)
	statement := NewStatementModel()
	date := MustParse("2025-06-15")

	mustReconcile(t, book, date, chequeBalances(1000), budget, statement)

	testCases := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"zero date", func() error {
			_, err := book.Reconcile(Date{}, chequeBalances(1000), budget, statement, true)
			return err
		}, ErrInvalidArgument},
		{"no bank balances", func() error {
			_, err := book.Reconcile(MustParse("2025-07-15"), nil, budget, statement, true)
			return err
		}, ErrInvalidArgument},
		{"nil budget", func() error {
			_, err := book.Reconcile(MustParse("2025-07-15"), chequeBalances(1000), nil, statement, true)
			return err
		}, ErrInvalidArgument},
		{"nil statement", func() error {
			_, err := book.Reconcile(MustParse("2025-07-15"), chequeBalances(1000), budget, nil, true)
			return err
		}, ErrInvalidArgument},
		{"same date", func() error {
			_, err := book.Reconcile(date, chequeBalances(1000), budget, statement, true)
			return err
		}, ErrDuplicate},
		{"earlier date", func() error {
			_, err := book.Reconcile(MustParse("2025-05-15"), chequeBalances(1000), budget, statement, true)
			return err
		}, ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Reconcile() = %v, want %v", err, tc.wantErr)
			}
			if book.MostRecentLine().Date() != date {
				t.Errorf("failed reconciliation must leave the history untouched")
			}
		})
	}
}

func TestReconcile_WarningsBlockUnlessIgnored(t *testing.T) {
	book, _, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), map[string]Money{"POWER": nzd(140), "INSURANCE": nzd(60)})

	// the first reconciliation creates budget credits with auto-matching
	// references that no statement will ever cover.
	mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel())

	_, err := book.Reconcile(MustParse("2025-07-15"), chequeBalances(1000), budget, NewStatementModel(), false)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Reconcile with orphaned references = %v, want *ValidationError", err)
	}
	// both envelopes' orphans are aggregated in the one error.
	if len(vErr.Messages) != 2 {
		t.Errorf("warnings = %d, want 2: %v", len(vErr.Messages), vErr.Messages)
	}
	for _, msg := range vErr.Messages {
		if !strings.Contains(msg, "auto-matching reference") {
			t.Errorf("warning %q should name the orphaned reference", msg)
		}
	}
	if book.MostRecentLine().Date() != MustParse("2025-06-15") {
		t.Errorf("blocked reconciliation must leave the history untouched")
	}

	// the same call with warnings ignored proceeds.
	if _, err := book.Reconcile(MustParse("2025-07-15"), chequeBalances(1000), budget, NewStatementModel(), true); err != nil {
		t.Errorf("Reconcile(ignoreWarnings) = %v, want nil", err)
	}
}

func TestReconcile_BudgetCreditRaisesTask(t *testing.T) {
	book, power, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), map[string]Money{"POWER": nzd(140)})

	line := mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel())

	var credit LedgerTransaction
	for _, tx := range line.Entry(power).Transactions() {
		if tx.Kind() == KindBudgetCredit {
			credit = tx
		}
	}
	if credit == nil {
		t.Fatal("budgeted envelope should receive a budget credit")
	}
	if credit.Narrative() != "Budgeted Amount" {
		t.Errorf("budget credit narrative = %q", credit.Narrative())
	}
	if credit.Reference() == "" {
		t.Fatal("budget credit should carry a fresh auto-matching reference")
	}

	found := false
	for task := range book.Tasks() {
		if task.Reference == credit.Reference() && task.SystemGenerated {
			found = true
		}
	}
	if !found {
		t.Errorf("no task references the new auto-matching reference %s", credit.Reference())
	}
}

func TestReconcile_FlagsDuplicateStatementTransactions(t *testing.T) {
	book, _, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), nil)

	dup := StatementTransaction{Date: MustParse("2025-06-10"), Amount: nzd(-50), Narrative: "AA INSURANCE", BucketCode: "INSURANCE", Account: testCheque}
	first, second := dup, dup
	first.ID, second.ID = "st-1", "st-2"
	mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel(first, second))

	found := false
	for task := range book.Tasks() {
		if strings.Contains(task.Description, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Errorf("reconciliation should raise a task for the duplicated statement transaction")
	}
}

func TestReconcile_MovedEnvelopeCarriesBalance(t *testing.T) {
	book, power, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), map[string]Money{"POWER": nzd(140)})

	mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel())

	moved, err := book.SetLedgerAccount(power, testSavings)
	if err != nil {
		t.Fatalf("SetLedgerAccount failed: %v", err)
	}
	july := mustReconcile(t, book, MustParse("2025-07-15"), chequeBalances(1000), budget, NewStatementModel())

	entry := july.Entry(moved)
	if entry == nil {
		t.Fatal("moved envelope should have an entry on the new line")
	}
	if !entry.Opening().Equal(nzd(140)) {
		t.Errorf("moved envelope opening = %s, want the prior balance 140", entry.Opening())
	}
}

func TestReconcile_NewSameCodeEnvelopeOpensAtZero(t *testing.T) {
	book, power, _ := newTestBook(t)
	budget := testBudget(MustParse("2025-01-01"), map[string]Money{"POWER": nzd(140)})

	mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, NewStatementModel())

	// a second POWER envelope, funded from savings, joins the book.
	powerSavings, err := book.AddLedger("POWER", testSavings)
	if err != nil {
		t.Fatalf("AddLedger(POWER, savings) failed: %v", err)
	}
	july := mustReconcile(t, book, MustParse("2025-07-15"), chequeBalances(1000), budget, NewStatementModel())

	if got := july.Entry(powerSavings).Opening(); !got.IsZero() {
		t.Errorf("new envelope opening = %s, want 0 on first appearance", got)
	}
	// the sibling keeps its own balance; nothing is duplicated.
	if got := july.Entry(power).Opening(); !got.Equal(nzd(140)) {
		t.Errorf("existing envelope opening = %s, want its prior balance 140", got)
	}
}

func TestReconcile_SharedCodeRoutesByAccount(t *testing.T) {
	book, power, _ := newTestBook(t)
	powerSavings, err := book.AddLedger("POWER", testSavings)
	if err != nil {
		t.Fatalf("AddLedger(POWER, savings) failed: %v", err)
	}
	budget := testBudget(MustParse("2025-01-01"), nil)

	statement := NewStatementModel(StatementTransaction{
		ID:         "st-1",
		Date:       MustParse("2025-06-10"),
		Amount:     nzd(-50),
		Narrative:  "CONTACT ENERGY",
		BucketCode: "POWER",
		Account:    testCheque,
	})
	line := mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, statement)

	// the transaction's account picks the cheque envelope, exactly once.
	count := 0
	for range line.Entry(power).Transactions() {
		count++
	}
	if count != 1 {
		t.Errorf("cheque POWER entry has %d transactions, want 1", count)
	}
	for _, tx := range line.Entry(powerSavings).Transactions() {
		t.Errorf("savings POWER entry should stay empty, got %q", tx.Narrative())
	}
}

func TestReconcile_SharedCodeUnroutableRaisesTask(t *testing.T) {
	book, power, _ := newTestBook(t)
	powerSavings, err := book.AddLedger("POWER", testSavings)
	if err != nil {
		t.Fatalf("AddLedger(POWER, savings) failed: %v", err)
	}
	budget := testBudget(MustParse("2025-01-01"), nil)

	// the transaction's account funds neither POWER envelope.
	statement := NewStatementModel(StatementTransaction{
		ID:         "st-1",
		Date:       MustParse("2025-06-10"),
		Amount:     nzd(-50),
		Narrative:  "CONTACT ENERGY",
		BucketCode: "POWER",
		Account:    NewAccount("visa", CreditAccount),
	})
	line := mustReconcile(t, book, MustParse("2025-06-15"), chequeBalances(1000), budget, statement)

	for _, bucket := range []LedgerBucket{power, powerSavings} {
		for _, tx := range line.Entry(bucket).Transactions() {
			t.Errorf("%s entry should stay empty, got %q", bucket, tx.Narrative())
		}
	}
	found := false
	for task := range book.Tasks() {
		if strings.Contains(task.Description, "assign it manually") {
			found = true
		}
	}
	if !found {
		t.Errorf("unroutable transaction should raise a task")
	}
}
