package grantbook

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports an operation referencing a grant or expense id that is
// absent from the book. Check for it with [errors.Is].
var ErrNotFound = errors.New("not found")

// Ledger is the in-memory view of the grant book document: every grant and
// every expense, with referential integrity between the two collections.
//
// A Ledger holds plain state and pure operations. Durability is the concern
// of [Store], which reloads and rewrites the whole document around each call.
type Ledger struct {
	grants   []Grant
	expenses []Expense
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		grants:   make([]Grant, 0),
		expenses: make([]Expense, 0),
	}
}

// Grant returns a copy of the grant with the given id.
func (l *Ledger) Grant(id string) (Grant, error) {
	for _, g := range l.grants {
		if g.ID == id {
			return g, nil
		}
	}
	return Grant{}, fmt.Errorf("grant %q: %w", id, ErrNotFound)
}

// Expense returns a copy of the expense with the given id.
func (l *Ledger) Expense(id string) (Expense, error) {
	for _, e := range l.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return Expense{}, fmt.Errorf("expense %q: %w", id, ErrNotFound)
}

// AppendGrant adds a grant to the book. The caller owns id and timestamp
// assignment; derivable category amounts are recomputed here so that no
// grant ever enters the book with a drifted derived amount.
func (l *Ledger) AppendGrant(g Grant) (Grant, error) {
	if err := g.Validate(); err != nil {
		return Grant{}, err
	}
	if g.BudgetCategories == nil {
		g.BudgetCategories = make([]BudgetCategory, 0)
	}
	for i := range g.BudgetCategories {
		if err := g.BudgetCategories[i].Recompute(); err != nil {
			return Grant{}, fmt.Errorf("grant %q: %w", g.Title, err)
		}
	}
	l.grants = append(l.grants, g)
	return g, nil
}

// UpdateGrant shallow-merges the patch onto the grant with the given id and
// refreshes its UpdatedAt. A patched category set has every derivable amount
// recomputed.
func (l *Ledger) UpdateGrant(id string, patch GrantPatch, now time.Time) (Grant, error) {
	for i := range l.grants {
		if l.grants[i].ID != id {
			continue
		}
		g := l.grants[i]
		patch.apply(&g)
		if err := g.Validate(); err != nil {
			return Grant{}, err
		}
		if patch.BudgetCategories != nil {
			for j := range g.BudgetCategories {
				if err := g.BudgetCategories[j].Recompute(); err != nil {
					return Grant{}, fmt.Errorf("grant %q: %w", g.Title, err)
				}
			}
		}
		g.UpdatedAt = now
		l.grants[i] = g
		return g, nil
	}
	return Grant{}, fmt.Errorf("grant %q: %w", id, ErrNotFound)
}

// DeleteGrant removes the grant and every expense whose GrantID matches it.
// The cascade is part of the same mutation: a persisted delete never leaves
// orphan expenses behind.
func (l *Ledger) DeleteGrant(id string) (Grant, error) {
	for i := range l.grants {
		if l.grants[i].ID != id {
			continue
		}
		g := l.grants[i]
		l.grants = append(l.grants[:i], l.grants[i+1:]...)

		kept := l.expenses[:0]
		for _, e := range l.expenses {
			if e.GrantID != id {
				kept = append(kept, e)
			}
		}
		l.expenses = kept
		return g, nil
	}
	return Grant{}, fmt.Errorf("grant %q: %w", id, ErrNotFound)
}

// AppendExpense adds an expense to the book after checking that its grant
// exists.
func (l *Ledger) AppendExpense(e Expense) (Expense, error) {
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if _, err := l.Grant(e.GrantID); err != nil {
		return Expense{}, err
	}
	l.expenses = append(l.expenses, e)
	return e, nil
}

// UpdateExpense shallow-merges the patch onto the expense with the given id
// and refreshes its UpdatedAt.
func (l *Ledger) UpdateExpense(id string, patch ExpensePatch, now time.Time) (Expense, error) {
	for i := range l.expenses {
		if l.expenses[i].ID != id {
			continue
		}
		e := l.expenses[i]
		patch.apply(&e)
		if err := e.Validate(); err != nil {
			return Expense{}, err
		}
		e.UpdatedAt = now
		l.expenses[i] = e
		return e, nil
	}
	return Expense{}, fmt.Errorf("expense %q: %w", id, ErrNotFound)
}

// DeleteExpense removes the expense with the given id.
func (l *Ledger) DeleteExpense(id string) (Expense, error) {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			e := l.expenses[i]
			l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
			return e, nil
		}
	}
	return Expense{}, fmt.Errorf("expense %q: %w", id, ErrNotFound)
}

// ExpensesOf returns every expense charged against the given grant.
func (l *Ledger) ExpensesOf(grantID string) []Expense {
	var out []Expense
	for _, e := range l.expenses {
		if e.GrantID == grantID {
			out = append(out, e)
		}
	}
	return out
}

// Grants returns every grant with its Expenses field populated from the
// expense collection. The join is computed, not stored.
func (l *Ledger) Grants() []Grant {
	out := make([]Grant, len(l.grants))
	for i, g := range l.grants {
		g.Expenses = l.ExpensesOf(g.ID)
		out[i] = g
	}
	return out
}

// ReplaceBudget replaces the whole category set of a grant. Replacement is
// total, never a merge: none of the previous categories survive. When
// freshIDs is true the previous ids are discarded and new ones assigned.
func (l *Ledger) ReplaceBudget(grantID string, categories []BudgetCategory, freshIDs bool, now time.Time) ([]BudgetCategory, error) {
	for i := range l.grants {
		if l.grants[i].ID != grantID {
			continue
		}
		set := make([]BudgetCategory, len(categories))
		for j, c := range categories {
			if freshIDs || c.ID == "" {
				c.ID = uuid.NewString()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			if err := c.Recompute(); err != nil {
				return nil, fmt.Errorf("grant %q: %w", grantID, err)
			}
			set[j] = c
		}
		l.grants[i].BudgetCategories = set
		l.grants[i].UpdatedAt = now
		return set, nil
	}
	return nil, fmt.Errorf("grant %q: %w", grantID, ErrNotFound)
}

// BudgetGap returns the difference between a grant's total amount and the
// sum of its budget category amounts. A non-zero gap is tolerated by the
// book itself; how loudly it is reported is the store's [BudgetPolicy].
func BudgetGap(g Grant) Money {
	return g.TotalAmount.Sub(BudgetTotal(g.BudgetCategories))
}
