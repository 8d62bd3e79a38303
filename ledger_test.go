package grantbook

import (
	"errors"
	"testing"
	"time"
)

func testLedger() *Ledger {
	return &Ledger{
		grants: []Grant{
			{ID: "G1", Title: "Deep Learning", Agency: "NSF", Number: "NSF-001", TotalAmount: M(100000, "")},
			{ID: "G2", Title: "Robotics", Agency: "DOE", Number: "DOE-002", TotalAmount: M(50000, "")},
		},
		expenses: []Expense{
			{ID: "E1", GrantID: "G1", Description: "GPU cluster time", Amount: M(1200, ""), Category: "Materials", Date: MustParse("2025-01-15")},
			{ID: "E2", GrantID: "G1", Description: "Conference travel", Amount: M(800, ""), Category: "Travel", Date: MustParse("2025-02-01")},
			{ID: "E3", GrantID: "G2", Description: "Sensor kit", Amount: M(300, ""), Category: "Materials", Date: MustParse("2024-12-31")},
		},
	}
}

func TestLedger_DeleteGrant_Cascades(t *testing.T) {
	l := testLedger()

	g, err := l.DeleteGrant("G1")
	if err != nil {
		t.Fatalf("DeleteGrant() error = %v", err)
	}
	if g.ID != "G1" {
		t.Errorf("DeleteGrant() returned grant %q, want G1", g.ID)
	}

	// Only G2 and its expense E3 survive.
	if len(l.grants) != 1 || l.grants[0].ID != "G2" {
		t.Errorf("grants after cascade = %v, want only G2", l.grants)
	}
	if len(l.expenses) != 1 || l.expenses[0].ID != "E3" {
		t.Errorf("expenses after cascade = %v, want only E3", l.expenses)
	}
}

func TestLedger_DeleteGrant_NotFound(t *testing.T) {
	l := testLedger()
	if _, err := l.DeleteGrant("G9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGrant(G9) error = %v, want ErrNotFound", err)
	}
}

func TestLedger_UpdateGrant_ShallowMerge(t *testing.T) {
	l := testLedger()
	title := "Deep Learning II"
	total := M(120000, "")
	now := time.Now()

	g, err := l.UpdateGrant("G1", GrantPatch{Title: &title, TotalAmount: &total}, now)
	if err != nil {
		t.Fatalf("UpdateGrant() error = %v", err)
	}
	if g.Title != title || !g.TotalAmount.Equal(total) {
		t.Errorf("UpdateGrant() = %+v, patched fields not applied", g)
	}
	// Untouched fields survive the merge.
	if g.Agency != "NSF" || g.Number != "NSF-001" {
		t.Errorf("UpdateGrant() clobbered unpatched fields: %+v", g)
	}
	if !g.UpdatedAt.Equal(now) {
		t.Errorf("UpdateGrant() did not refresh UpdatedAt")
	}
}

func TestLedger_UpdateGrant_RecomputesCategories(t *testing.T) {
	l := testLedger()
	categories := []BudgetCategory{{
		ID:             "C1",
		Category:       "PI Salary",
		Type:           PISalary,
		Amount:         M(1, ""), // wrong on purpose
		MonthlyRate:    M(10000, ""),
		NumberOfMonths: d(3),
	}}

	g, err := l.UpdateGrant("G1", GrantPatch{BudgetCategories: &categories}, time.Now())
	if err != nil {
		t.Fatalf("UpdateGrant() error = %v", err)
	}
	if want := M(30000, ""); !g.BudgetCategories[0].Amount.Equal(want) {
		t.Errorf("category amount = %s, want recomputed %s", g.BudgetCategories[0].Amount, want)
	}
}

func TestLedger_AppendExpense_UnknownGrant(t *testing.T) {
	l := testLedger()
	e := Expense{ID: "E9", GrantID: "G9", Description: "x", Amount: M(1, ""), Category: "Other", Date: Today()}
	if _, err := l.AppendExpense(e); !errors.Is(err, ErrNotFound) {
		t.Errorf("AppendExpense() error = %v, want ErrNotFound", err)
	}
}

func TestLedger_Grants_JoinsExpenses(t *testing.T) {
	l := testLedger()
	grants := l.Grants()
	if len(grants) != 2 {
		t.Fatalf("Grants() returned %d grants, want 2", len(grants))
	}
	if got := len(grants[0].Expenses); got != 2 {
		t.Errorf("G1 joined %d expenses, want 2", got)
	}
	if got := len(grants[1].Expenses); got != 1 {
		t.Errorf("G2 joined %d expenses, want 1", got)
	}
}

func TestLedger_ReplaceBudget_IsTotal(t *testing.T) {
	l := testLedger()
	now := time.Now()

	first := []BudgetCategory{
		{Category: "Travel", Type: Travel, CostPerTrip: M(1000, ""), NumberOfTrips: d(2)},
		{Category: "Materials", Type: Materials, Amount: M(5000, "")},
	}
	set, err := l.ReplaceBudget("G1", first, true, now)
	if err != nil {
		t.Fatalf("ReplaceBudget() error = %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("ReplaceBudget() kept %d categories, want 2", len(set))
	}
	firstIDs := map[string]bool{set[0].ID: true, set[1].ID: true}

	// Re-importing replaces the whole set: none of the previous categories survive.
	second := []BudgetCategory{{Category: "Publication", Type: Publication, Amount: M(1500, "")}}
	set, err = l.ReplaceBudget("G1", second, true, now)
	if err != nil {
		t.Fatalf("ReplaceBudget() error = %v", err)
	}
	if len(set) != 1 || set[0].Category != "Publication" {
		t.Fatalf("ReplaceBudget() = %v, want only the new category", set)
	}
	if firstIDs[set[0].ID] {
		t.Errorf("ReplaceBudget() recycled a previous category id %q", set[0].ID)
	}

	g, _ := l.Grant("G1")
	if len(g.BudgetCategories) != 1 {
		t.Errorf("grant kept %d categories, want 1", len(g.BudgetCategories))
	}
}

func TestLedger_ReplaceBudget_KeepIDs(t *testing.T) {
	l := testLedger()
	set, err := l.ReplaceBudget("G2", []BudgetCategory{
		{ID: "keep-me", Category: "Other", Type: Other, Amount: M(10, "")},
	}, false, time.Now())
	if err != nil {
		t.Fatalf("ReplaceBudget() error = %v", err)
	}
	if set[0].ID != "keep-me" {
		t.Errorf("ReplaceBudget(keep ids) id = %q, want keep-me", set[0].ID)
	}
}

func TestBudgetGap(t *testing.T) {
	g := Grant{
		TotalAmount: M(10000, ""),
		BudgetCategories: []BudgetCategory{
			{Category: "A", Type: Other, Amount: M(6000, "")},
			{Category: "B", Type: Other, Amount: M(3000, "")},
		},
	}
	if got, want := BudgetGap(g), M(1000, ""); !got.Equal(want) {
		t.Errorf("BudgetGap() = %s, want %s", got, want)
	}
}
