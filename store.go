package grantbook

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BudgetPolicy decides what happens when a grant's total amount diverges
// from the sum of its budget categories.
type BudgetPolicy int

const (
	// BudgetWarn logs the gap and carries on. This is the default.
	BudgetWarn BudgetPolicy = iota
	// BudgetIgnore tolerates the gap silently.
	BudgetIgnore
	// BudgetStrict rejects the write with an error.
	BudgetStrict
)

func (p BudgetPolicy) String() string {
	switch p {
	case BudgetWarn:
		return "warn"
	case BudgetIgnore:
		return "ignore"
	case BudgetStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseBudgetPolicy parses a string into a BudgetPolicy.
func ParseBudgetPolicy(s string) (BudgetPolicy, error) {
	switch s {
	case "warn":
		return BudgetWarn, nil
	case "ignore":
		return BudgetIgnore, nil
	case "strict":
		return BudgetStrict, nil
	default:
		return 0, fmt.Errorf("unknown budget policy: %q", s)
	}
}

// Store persists the grant book as a single JSON document on disk.
//
// Every operation is one whole-document read-modify-write cycle: the file is
// reloaded before mutating and rewritten after, and no state is cached
// across calls. Within one process a read issued after a completed write
// observes that write; concurrent external writers are unguarded, last
// writer wins at the file level.
type Store struct {
	path   string
	policy BudgetPolicy
}

// NewStore creates a store over the document at 'path'. A missing file reads
// as an empty book and is created on the first write.
func NewStore(path string, policy BudgetPolicy) *Store {
	return &Store{path: path, policy: policy}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// load reads the whole document from disk.
func (s *Store) load() (*Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open grant book %q: %w", s.path, err)
	}
	defer f.Close()

	l, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode grant book %q: %w", s.path, err)
	}
	return l, nil
}

// save rewrites the whole document. The write goes through a temporary file
// and a rename so a failed write never truncates the book.
func (s *Store) save(l *Ledger) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory for grant book %q: %w", s.path, err)
		}
	}
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot create grant book file %q: %w", tmp, err)
	}
	if err := EncodeLedger(f, l); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close grant book file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("cannot replace grant book file %q: %w", s.path, err)
	}
	return nil
}

// checkBudget applies the store's policy to a grant's budget gap.
func (s *Store) checkBudget(g Grant) error {
	gap := BudgetGap(g)
	if gap.IsZero() {
		return nil
	}
	switch s.policy {
	case BudgetStrict:
		return fmt.Errorf("grant %q: total amount diverges from budget categories by %s", g.Title, gap)
	case BudgetWarn:
		log.Printf("budget-gap grant=%q gap=%s", g.Title, gap)
	}
	return nil
}

// CreateGrant assigns an id and timestamps, persists the grant, and returns
// the stored value. Budget categories default to an empty set.
func (s *Store) CreateGrant(g Grant) (Grant, error) {
	l, err := s.load()
	if err != nil {
		return Grant{}, err
	}

	now := time.Now()
	g.ID = uuid.NewString()
	g.CreatedAt = now
	g.UpdatedAt = now
	for i := range g.BudgetCategories {
		if g.BudgetCategories[i].ID == "" {
			g.BudgetCategories[i].ID = uuid.NewString()
		}
		if g.BudgetCategories[i].CreatedAt.IsZero() {
			g.BudgetCategories[i].CreatedAt = now
		}
	}

	stored, err := l.AppendGrant(g)
	if err != nil {
		return Grant{}, err
	}
	if err := s.checkBudget(stored); err != nil {
		return Grant{}, err
	}
	if err := s.save(l); err != nil {
		return Grant{}, err
	}
	return stored, nil
}

// UpdateGrant shallow-merges the patch onto the stored grant.
func (s *Store) UpdateGrant(id string, patch GrantPatch) (Grant, error) {
	l, err := s.load()
	if err != nil {
		return Grant{}, err
	}
	g, err := l.UpdateGrant(id, patch, time.Now())
	if err != nil {
		return Grant{}, err
	}
	if err := s.checkBudget(g); err != nil {
		return Grant{}, err
	}
	if err := s.save(l); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// DeleteGrant removes the grant and, in the same write, every expense
// charged against it.
func (s *Store) DeleteGrant(id string) (Grant, error) {
	l, err := s.load()
	if err != nil {
		return Grant{}, err
	}
	g, err := l.DeleteGrant(id)
	if err != nil {
		return Grant{}, err
	}
	if err := s.save(l); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// CreateExpense assigns an id and timestamps and persists the expense. The
// referenced grant must exist.
func (s *Store) CreateExpense(e Expense) (Expense, error) {
	l, err := s.load()
	if err != nil {
		return Expense{}, err
	}
	now := time.Now()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now

	stored, err := l.AppendExpense(e)
	if err != nil {
		return Expense{}, err
	}
	if err := s.save(l); err != nil {
		return Expense{}, err
	}
	return stored, nil
}

// UpdateExpense shallow-merges the patch onto the stored expense.
func (s *Store) UpdateExpense(id string, patch ExpensePatch) (Expense, error) {
	l, err := s.load()
	if err != nil {
		return Expense{}, err
	}
	e, err := l.UpdateExpense(id, patch, time.Now())
	if err != nil {
		return Expense{}, err
	}
	if err := s.save(l); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// DeleteExpense removes the expense with the given id.
func (s *Store) DeleteExpense(id string) (Expense, error) {
	l, err := s.load()
	if err != nil {
		return Expense{}, err
	}
	e, err := l.DeleteExpense(id)
	if err != nil {
		return Expense{}, err
	}
	if err := s.save(l); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Grants returns every grant with its expenses joined.
func (s *Store) Grants() ([]Grant, error) {
	l, err := s.load()
	if err != nil {
		return nil, err
	}
	return l.Grants(), nil
}

// Grant returns the grant with the given id, with its expenses joined.
func (s *Store) Grant(id string) (Grant, error) {
	l, err := s.load()
	if err != nil {
		return Grant{}, err
	}
	g, err := l.Grant(id)
	if err != nil {
		return Grant{}, err
	}
	g.Expenses = l.ExpensesOf(g.ID)
	return g, nil
}

// ExpensesByDateRange returns every expense dated within the inclusive range
// (optionally filtered by grant ids), each enriched with its parent grant
// snapshot, sorted ascending by date.
func (s *Store) ExpensesByDateRange(from, to Date, grantIDs ...string) ([]ExpenseWithGrant, error) {
	l, err := s.load()
	if err != nil {
		return nil, err
	}
	return l.ExpensesInRange(NewRange(from, to), grantIDs...), nil
}

// ReplaceBudget replaces a grant's whole category set, assigning fresh ids.
func (s *Store) ReplaceBudget(grantID string, categories []BudgetCategory) ([]BudgetCategory, error) {
	return s.replaceBudget(grantID, categories, true)
}

// UpdateBudget replaces a grant's whole category set, preserving the
// caller-supplied ids.
func (s *Store) UpdateBudget(grantID string, categories []BudgetCategory) ([]BudgetCategory, error) {
	return s.replaceBudget(grantID, categories, false)
}

func (s *Store) replaceBudget(grantID string, categories []BudgetCategory, freshIDs bool) ([]BudgetCategory, error) {
	l, err := s.load()
	if err != nil {
		return nil, err
	}
	set, err := l.ReplaceBudget(grantID, categories, freshIDs, time.Now())
	if err != nil {
		return nil, err
	}
	g, err := l.Grant(grantID)
	if err != nil {
		return nil, err
	}
	if err := s.checkBudget(g); err != nil {
		return nil, err
	}
	if err := s.save(l); err != nil {
		return nil, err
	}
	return set, nil
}

// Fmt rewrites the document in its canonical form.
func (s *Store) Fmt() error {
	l, err := s.load()
	if err != nil {
		return err
	}
	return s.save(l)
}
