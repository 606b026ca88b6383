package budget

import "testing"

func newTestStatement() *StatementModel {
	return NewStatementModel(
		StatementTransaction{ID: "st-3", Date: MustParse("2025-07-02"), Amount: nzd(-123.56), Narrative: "CONTACT ENERGY", BucketCode: "POWER", Account: testCheque, Reference: "ref-1"},
		StatementTransaction{ID: "st-1", Date: MustParse("2025-06-15"), Amount: nzd(-50), Narrative: "AA INSURANCE", BucketCode: "INSURANCE", Account: testCheque},
		StatementTransaction{ID: "st-2", Date: MustParse("2025-06-20"), Amount: nzd(140), Narrative: "TOP UP", BucketCode: "POWER", Account: testCheque},
	)
}

func TestStatementModel_ChronologicalOrder(t *testing.T) {
	var ids []string
	for _, tx := range newTestStatement().Transactions() {
		ids = append(ids, tx.ID)
	}
	if len(ids) != 3 || ids[0] != "st-1" || ids[1] != "st-2" || ids[2] != "st-3" {
		t.Errorf("Transactions() order = %v, want [st-1 st-2 st-3]", ids)
	}
}

func TestStatementModel_Filters(t *testing.T) {
	statement := newTestStatement()

	var ids []string
	for _, tx := range statement.Transactions(ByBucket("POWER")) {
		ids = append(ids, tx.ID)
	}
	if len(ids) != 2 || ids[0] != "st-2" || ids[1] != "st-3" {
		t.Errorf("ByBucket(POWER) = %v, want [st-2 st-3]", ids)
	}

	// filters compose: all of them must accept.
	ids = nil
	for _, tx := range statement.Transactions(ByBucket("POWER"), InWindow(MustParse("2025-06-15"), MustParse("2025-07-01"))) {
		ids = append(ids, tx.ID)
	}
	if len(ids) != 1 || ids[0] != "st-2" {
		t.Errorf("composed filters = %v, want [st-2]", ids)
	}
}

func TestStatementModel_InWindow(t *testing.T) {
	window := InWindow(MustParse("2025-06-15"), MustParse("2025-07-02"))

	testCases := []struct {
		name string
		date string
		want bool
	}{
		{name: "on the start date", date: "2025-06-15", want: true},
		{name: "inside", date: "2025-06-20", want: true},
		{name: "before the start", date: "2025-06-14"},
		{name: "on the end date", date: "2025-07-02"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tx := StatementTransaction{Date: MustParse(tc.date)}
			if got := window(tx); got != tc.want {
				t.Errorf("InWindow(%s) = %t, want %t", tc.date, got, tc.want)
			}
		})
	}

	// a zero start accepts everything before the end.
	open := InWindow(Date{}, MustParse("2025-07-02"))
	if !open(StatementTransaction{Date: MustParse("2020-01-01")}) {
		t.Errorf("open window should accept any earlier date")
	}
}

func TestStatementModel_HasReference(t *testing.T) {
	statement := newTestStatement()
	if !statement.HasReference("ref-1") {
		t.Errorf("HasReference(ref-1) = false, want true")
	}
	if statement.HasReference("ref-9") {
		t.Errorf("HasReference(ref-9) = true, want false")
	}
	if statement.HasReference("") {
		// st-1 and st-2 carry no reference; the empty token must not match them.
		t.Errorf("HasReference(empty) must not match unreferenced transactions")
	}
}
