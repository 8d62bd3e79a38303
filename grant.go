package grantbook

import (
	"fmt"
	"time"
)

// GrantStatus is the lifecycle status of a grant.
type GrantStatus string

const (
	StatusActive    GrantStatus = "Active"
	StatusCompleted GrantStatus = "Completed"
	StatusCancelled GrantStatus = "Cancelled"
)

// ParseGrantStatus parses a string into a GrantStatus.
func ParseGrantStatus(s string) (GrantStatus, error) {
	switch GrantStatus(s) {
	case StatusActive, StatusCompleted, StatusCancelled:
		return GrantStatus(s), nil
	default:
		return "", fmt.Errorf("unknown grant status: %q", s)
	}
}

// Grant is a funded research award with a total budget and a date span.
//
// Its budget categories are embedded in the grant, its expenses are kept in
// the book's top-level expense collection and joined on demand.
type Grant struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Agency      string `json:"agency"`
	Number      string `json:"number"`

	TotalAmount Money       `json:"totalAmount"`
	StartDate   Date        `json:"startDate,omitzero"`
	EndDate     Date        `json:"endDate,omitzero"`
	Status      GrantStatus `json:"status"`
	Description string      `json:"description,omitempty"`

	BudgetCategories []BudgetCategory `json:"budgetCategories"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	// Expenses is the computed join against the book's expense collection.
	// It is filled by read operations and never persisted with the grant.
	Expenses []Expense `json:"-"`
}

// Validate checks the required fields of a grant.
func (g Grant) Validate() error {
	if g.Title == "" {
		return fmt.Errorf("grant requires a title")
	}
	if g.Agency == "" {
		return fmt.Errorf("grant %q requires an agency", g.Title)
	}
	if g.Number == "" {
		return fmt.Errorf("grant %q requires a number", g.Title)
	}
	if g.TotalAmount.IsNegative() {
		return fmt.Errorf("grant %q requires a non-negative total amount, got %s", g.Title, g.TotalAmount)
	}
	return nil
}

// snapshot returns a copy of the grant without its joined expense list, for
// embedding into reporting rows.
func (g Grant) snapshot() Grant {
	g.Expenses = nil
	return g
}

// GrantPatch is a partial grant update. Nil fields are left untouched, the
// merge is shallow: a non-nil BudgetCategories replaces the whole set.
type GrantPatch struct {
	Title            *string           `json:"title,omitempty"`
	Agency           *string           `json:"agency,omitempty"`
	Number           *string           `json:"number,omitempty"`
	TotalAmount      *Money            `json:"totalAmount,omitempty"`
	StartDate        *Date             `json:"startDate,omitempty"`
	EndDate          *Date             `json:"endDate,omitempty"`
	Status           *GrantStatus      `json:"status,omitempty"`
	Description      *string           `json:"description,omitempty"`
	BudgetCategories *[]BudgetCategory `json:"budgetCategories,omitempty"`
}

func (p GrantPatch) apply(g *Grant) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Agency != nil {
		g.Agency = *p.Agency
	}
	if p.Number != nil {
		g.Number = *p.Number
	}
	if p.TotalAmount != nil {
		g.TotalAmount = *p.TotalAmount
	}
	if p.StartDate != nil {
		g.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		g.EndDate = *p.EndDate
	}
	if p.Status != nil {
		g.Status = *p.Status
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.BudgetCategories != nil {
		g.BudgetCategories = *p.BudgetCategories
	}
}

// Expense is a dated expenditure against a grant, tagged with a category
// label that should match one of the grant's budget category labels.
type Expense struct {
	ID          string    `json:"id"`
	GrantID     string    `json:"grantId"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Category    string    `json:"category"`
	Date        Date      `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Validate checks the required fields of an expense.
func (e Expense) Validate() error {
	if e.GrantID == "" {
		return fmt.Errorf("expense requires a grant id")
	}
	if e.Description == "" {
		return fmt.Errorf("expense requires a description")
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("expense %q requires a positive amount, got %s", e.Description, e.Amount)
	}
	if e.Category == "" {
		return fmt.Errorf("expense %q requires a category", e.Description)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("expense %q requires a date", e.Description)
	}
	return nil
}

// ExpensePatch is a partial expense update. Nil fields are left untouched.
type ExpensePatch struct {
	Description *string `json:"description,omitempty"`
	Amount      *Money  `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Date        *Date   `json:"date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (p ExpensePatch) apply(e *Expense) {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}
