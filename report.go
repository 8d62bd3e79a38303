package grantbook

import "sort"

// ExpenseWithGrant is a reporting row: an expense joined with a snapshot of
// its parent grant. The snapshot excludes the grant's own expense list to
// keep the row flat.
type ExpenseWithGrant struct {
	Expense
	Grant Grant `json:"grant"`
}

// ExpensesInRange returns every expense whose date falls within the
// inclusive range and, when grantIDs is non-empty, whose grant is in that
// set. Results are sorted ascending by date; same-day expenses keep their
// book order.
func (l *Ledger) ExpensesInRange(r Range, grantIDs ...string) []ExpenseWithGrant {
	wanted := make(map[string]struct{}, len(grantIDs))
	for _, id := range grantIDs {
		wanted[id] = struct{}{}
	}

	out := make([]ExpenseWithGrant, 0)
	for _, e := range l.expenses {
		if !r.Contains(e.Date) {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[e.GrantID]; !ok {
				continue
			}
		}
		row := ExpenseWithGrant{Expense: e}
		if g, err := l.Grant(e.GrantID); err == nil {
			row.Grant = g.snapshot()
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// TotalAmount sums the amounts of a set of reporting rows.
func TotalAmount(rows []ExpenseWithGrant) Money {
	var total Money
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total
}
