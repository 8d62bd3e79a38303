package grantbook

import (
	"testing"
)

func TestLedger_ExpensesInRange(t *testing.T) {
	l := &Ledger{
		grants: []Grant{
			{ID: "G1", Title: "Deep Learning", Agency: "NSF", Number: "NSF-001"},
			{ID: "G2", Title: "Robotics", Agency: "DOE", Number: "DOE-002"},
		},
		expenses: []Expense{
			{ID: "E1", GrantID: "G1", Description: "late 2024", Amount: M(10, ""), Category: "Other", Date: MustParse("2024-12-31")},
			{ID: "E2", GrantID: "G1", Description: "mid january", Amount: M(20, ""), Category: "Other", Date: MustParse("2025-01-15")},
			{ID: "E3", GrantID: "G2", Description: "february", Amount: M(30, ""), Category: "Other", Date: MustParse("2025-02-01")},
		},
	}

	t.Run("inclusive boundaries", func(t *testing.T) {
		rows := l.ExpensesInRange(NewRange(MustParse("2025-01-01"), MustParse("2025-01-31")))
		if len(rows) != 1 || rows[0].ID != "E2" {
			t.Fatalf("ExpensesInRange(january) = %v, want only E2", rows)
		}
	})

	t.Run("sorted ascending by date", func(t *testing.T) {
		rows := l.ExpensesInRange(NewRange(MustParse("2024-01-01"), MustParse("2025-12-31")))
		if len(rows) != 3 {
			t.Fatalf("ExpensesInRange(all) returned %d rows, want 3", len(rows))
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Date.Before(rows[i-1].Date) {
				t.Errorf("rows out of order: %s before %s", rows[i].Date, rows[i-1].Date)
			}
		}
	})

	t.Run("grant filter", func(t *testing.T) {
		rows := l.ExpensesInRange(NewRange(MustParse("2024-01-01"), MustParse("2025-12-31")), "G2")
		if len(rows) != 1 || rows[0].ID != "E3" {
			t.Fatalf("ExpensesInRange(G2) = %v, want only E3", rows)
		}
	})

	t.Run("rows carry a grant snapshot without expenses", func(t *testing.T) {
		rows := l.ExpensesInRange(NewRange(MustParse("2025-01-01"), MustParse("2025-01-31")))
		if rows[0].Grant.Title != "Deep Learning" {
			t.Errorf("snapshot title = %q, want the parent grant's", rows[0].Grant.Title)
		}
		if rows[0].Grant.Expenses != nil {
			t.Errorf("snapshot must not embed the grant's expense list")
		}
	})

	t.Run("boundary days are included", func(t *testing.T) {
		rows := l.ExpensesInRange(NewRange(MustParse("2024-12-31"), MustParse("2025-02-01")))
		if len(rows) != 3 {
			t.Errorf("ExpensesInRange(boundaries) returned %d rows, want 3", len(rows))
		}
	})
}

func TestTotalAmount(t *testing.T) {
	rows := []ExpenseWithGrant{
		{Expense: Expense{Amount: M(10.25, "")}},
		{Expense: Expense{Amount: M(4.75, "")}},
	}
	if got, want := TotalAmount(rows), M(15, ""); !got.Equal(want) {
		t.Errorf("TotalAmount() = %s, want %s", got, want)
	}
}
