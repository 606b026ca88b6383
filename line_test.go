package budget

import (
	"errors"
	"testing"
)

func newTestLine(t *testing.T, balances []BankBalance) *LedgerEntryLine {
	t.Helper()
	line := newLedgerEntryLine(MustParse("2025-06-15"), balances)
	power := newLedgerEntry(NewLedgerBucket("POWER", testCheque), nzd(0))
	if err := power.applyTransactions(NewBudgetCredit(line.Date(), "Budgeted Amount", nzd(140), "")); err != nil {
		t.Fatalf("applyTransactions failed: %v", err)
	}
	insurance := newLedgerEntry(NewLedgerBucket("INSURANCE", testCheque), nzd(60))
	line.entries = append(line.entries, power, insurance)
	return line
}

func TestLedgerEntryLine_DerivedValues(t *testing.T) {
	line := newTestLine(t, chequeBalances(1000))

	if got := line.TotalBankBalance(); !got.Equal(nzd(1000)) {
		t.Errorf("TotalBankBalance() = %s, want 1000", got)
	}
	// 140 (POWER) + 60 (INSURANCE) envelope balances, no adjustments yet.
	if got := line.LedgerBalance(); !got.Equal(nzd(200)) {
		t.Errorf("LedgerBalance() = %s, want 200", got)
	}
	if got := line.CalculatedSurplus(); !got.Equal(nzd(800)) {
		t.Errorf("CalculatedSurplus() = %s, want 800", got)
	}

	if _, err := line.CreateBalanceAdjustment(nzd(-2.50), "bank fee not yet on statement", testCheque); err != nil {
		t.Fatalf("CreateBalanceAdjustment failed: %v", err)
	}
	if got := line.TotalBalanceAdjustments(); !got.Equal(nzd(-2.50)) {
		t.Errorf("TotalBalanceAdjustments() = %s, want -2.50", got)
	}
	if got := line.LedgerBalance(); !got.Equal(nzd(197.50)) {
		t.Errorf("LedgerBalance() = %s, want 197.50", got)
	}
	if got := line.CalculatedSurplus(); !got.Equal(nzd(797.50)) {
		t.Errorf("CalculatedSurplus() = %s, want 797.50", got)
	}
}

func TestLedgerEntryLine_CopiesBankBalances(t *testing.T) {
	balances := chequeBalances(1000)
	line := newTestLine(t, balances)

	// mutating the caller's slice must not rewrite the snapshot.
	balances[0].Balance = nzd(9999)
	if got := line.TotalBankBalance(); !got.Equal(nzd(1000)) {
		t.Errorf("TotalBankBalance() = %s, want the 1000 taken at construction", got)
	}
}

func TestLedgerEntryLine_ReadsAreIdempotent(t *testing.T) {
	line := newTestLine(t, chequeBalances(1000))
	first, second := line.CalculatedSurplus(), line.CalculatedSurplus()
	if !first.Equal(second) {
		t.Errorf("CalculatedSurplus() not idempotent: %s then %s", first, second)
	}
	if !line.LedgerBalance().Equal(line.LedgerBalance()) {
		t.Errorf("LedgerBalance() not idempotent")
	}
}

func TestLedgerEntryLine_CancelBalanceAdjustment(t *testing.T) {
	line := newTestLine(t, chequeBalances(1000))
	adjustment, err := line.CreateBalanceAdjustment(nzd(10), "missed deposit", testCheque)
	if err != nil {
		t.Fatalf("CreateBalanceAdjustment failed: %v", err)
	}

	if err := line.CancelBalanceAdjustment("bogus-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("CancelBalanceAdjustment(unknown) = %v, want ErrNotFound", err)
	}
	if err := line.CancelBalanceAdjustment(adjustment.ID()); err != nil {
		t.Fatalf("CancelBalanceAdjustment failed: %v", err)
	}
	if !line.TotalBalanceAdjustments().IsZero() {
		t.Errorf("TotalBalanceAdjustments() = %s, want 0 after cancel", line.TotalBalanceAdjustments())
	}
}

func TestLedgerEntryLine_LockedIsImmutable(t *testing.T) {
	line := newTestLine(t, chequeBalances(1000))
	adjustment, err := line.CreateBalanceAdjustment(nzd(10), "missed deposit", testCheque)
	if err != nil {
		t.Fatalf("CreateBalanceAdjustment failed: %v", err)
	}
	line.lock()

	power := NewLedgerBucket("POWER", testCheque)
	var txID string
	for _, tx := range line.Entry(power).Transactions() {
		txID = tx.ID()
	}

	mutations := []struct {
		name string
		call func() error
	}{
		{"CreateBalanceAdjustment", func() error {
			_, err := line.CreateBalanceAdjustment(nzd(5), "late", testCheque)
			return err
		}},
		{"CancelBalanceAdjustment", func() error { return line.CancelBalanceAdjustment(adjustment.ID()) }},
		{"UpdateRemarks", func() error { return line.UpdateRemarks("nope") }},
		{"RemoveTransaction", func() error { return line.RemoveTransaction(power, txID) }},
		{"AddTransaction", func() error {
			return line.AddTransaction(power, NewCredit(line.Date(), "late", nzd(5), ""))
		}},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			if err := m.call(); !errors.Is(err, ErrInvalidState) {
				t.Errorf("%s on locked line = %v, want ErrInvalidState", m.name, err)
			}
		})
	}
}

func TestLedgerEntryLine_UpdateRemarks(t *testing.T) {
	line := newTestLine(t, chequeBalances(1000))
	if err := line.UpdateRemarks("June reconciliation went smoothly"); err != nil {
		t.Fatalf("UpdateRemarks failed: %v", err)
	}
	if line.Remarks() != "June reconciliation went smoothly" {
		t.Errorf("Remarks() = %q", line.Remarks())
	}
}

func TestLedgerEntryLine_StateString(t *testing.T) {
	line := newTestLine(t, chequeBalances(1000))
	if !line.IsNew() || line.State().String() != "new" {
		t.Errorf("fresh line state = %v, want new", line.State())
	}
	line.lock()
	if line.IsNew() || line.State().String() != "locked" {
		t.Errorf("locked line state = %v, want locked", line.State())
	}
}
