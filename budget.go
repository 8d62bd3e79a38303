package grantbook

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryType discriminates the budget category variants.
//
// Salary, travel and tuition categories are derivable: their amount is
// always the output of [Compute] for the current parameters and is never
// accepted from the outside. The remaining types carry a flat amount.
type CategoryType string

const (
	PISalary      CategoryType = "pi_salary"
	StudentSalary CategoryType = "student_salary"
	Travel        CategoryType = "travel"
	Materials     CategoryType = "materials"
	Publication   CategoryType = "publication"
	Tuition       CategoryType = "tuition"
	Indirect      CategoryType = "indirect"
	Other         CategoryType = "other"
)

// CategoryTypes lists every known category type.
var CategoryTypes = []CategoryType{
	PISalary, StudentSalary, Travel, Materials, Publication, Tuition, Indirect, Other,
}

// ParseCategoryType parses a string into a CategoryType.
func ParseCategoryType(s string) (CategoryType, error) {
	for _, t := range CategoryTypes {
		if CategoryType(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown budget category type: %q", s)
}

// Derivable reports whether the category amount is derived from parameters.
func (t CategoryType) Derivable() bool {
	switch t {
	case PISalary, StudentSalary, Travel, Tuition:
		return true
	default:
		return false
	}
}

// CategoryParams holds the rate/quantity parameters a category amount can be
// derived from. Unused parameters are left at zero.
type CategoryParams struct {
	Amount           Money           // flat types only, echoed back by Compute
	MonthlyRate      Money           // pi_salary, student_salary
	NumberOfMonths   decimal.Decimal // pi_salary, student_salary
	NumberOfStudents decimal.Decimal // student_salary, tuition
	YearlyRate       Money           // tuition
	NumberOfYears    decimal.Decimal // tuition
	NumberOfTrips    decimal.Decimal // travel
	CostPerTrip      Money           // travel
}

func (p CategoryParams) validate(typ CategoryType) error {
	checks := []struct {
		name     string
		negative bool
	}{
		{"amount", p.Amount.IsNegative()},
		{"monthlyRate", p.MonthlyRate.IsNegative()},
		{"numberOfMonths", p.NumberOfMonths.IsNegative()},
		{"numberOfStudents", p.NumberOfStudents.IsNegative()},
		{"yearlyRate", p.YearlyRate.IsNegative()},
		{"numberOfYears", p.NumberOfYears.IsNegative()},
		{"numberOfTrips", p.NumberOfTrips.IsNegative()},
		{"costPerTrip", p.CostPerTrip.IsNegative()},
	}
	for _, c := range checks {
		if c.negative {
			return fmt.Errorf("%s category: %s must not be negative", typ, c.name)
		}
	}
	return nil
}

// Compute derives a category amount from its type and parameters.
//
// The function is pure: missing parameters count as zero, and non-derivable
// types return the supplied flat amount unchanged. A negative parameter is a
// validation error whatever the type.
func Compute(typ CategoryType, p CategoryParams) (Money, error) {
	if err := p.validate(typ); err != nil {
		return Money{}, err
	}
	switch typ {
	case PISalary:
		return p.MonthlyRate.Mul(p.NumberOfMonths), nil
	case StudentSalary:
		return p.MonthlyRate.Mul(p.NumberOfMonths).Mul(p.NumberOfStudents), nil
	case Tuition:
		return p.YearlyRate.Mul(p.NumberOfYears).Mul(p.NumberOfStudents), nil
	case Travel:
		return p.CostPerTrip.Mul(p.NumberOfTrips), nil
	default:
		return p.Amount, nil
	}
}

// BudgetCategory is a named allocation bucket within a grant.
//
// Category is a display label, not a foreign key: expenses join against it
// by string equality.
type BudgetCategory struct {
	ID       string       `json:"id"`
	Category string       `json:"category"`
	Type     CategoryType `json:"type"`
	Amount   Money        `json:"amount"`

	MonthlyRate      Money           `json:"monthlyRate,omitzero"`
	NumberOfMonths   decimal.Decimal `json:"numberOfMonths,omitzero"`
	NumberOfStudents decimal.Decimal `json:"numberOfStudents,omitzero"`
	YearlyRate       Money           `json:"yearlyRate,omitzero"`
	NumberOfYears    decimal.Decimal `json:"numberOfYears,omitzero"`
	NumberOfTrips    decimal.Decimal `json:"numberOfTrips,omitzero"`
	CostPerTrip      Money           `json:"costPerTrip,omitzero"`

	Description string    `json:"description,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	FiscalYear  string    `json:"fiscalYear,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// Params assembles the category's parameter set for [Compute].
func (c BudgetCategory) Params() CategoryParams {
	return CategoryParams{
		Amount:           c.Amount,
		MonthlyRate:      c.MonthlyRate,
		NumberOfMonths:   c.NumberOfMonths,
		NumberOfStudents: c.NumberOfStudents,
		YearlyRate:       c.YearlyRate,
		NumberOfYears:    c.NumberOfYears,
		NumberOfTrips:    c.NumberOfTrips,
		CostPerTrip:      c.CostPerTrip,
	}
}

// Recompute overwrites Amount with the calculator's output for the current
// parameters. It must be called on every creation or parameter mutation of a
// category: the stored amount is never trusted as authoritative input for
// derivable types.
func (c *BudgetCategory) Recompute() error {
	if c.Category == "" {
		return fmt.Errorf("budget category requires a label")
	}
	if _, err := ParseCategoryType(string(c.Type)); err != nil {
		return err
	}
	amount, err := Compute(c.Type, c.Params())
	if err != nil {
		return err
	}
	c.Amount = amount
	return nil
}

// BudgetTotal sums the amounts of a category set.
func BudgetTotal(categories []BudgetCategory) Money {
	var total Money
	for _, c := range categories {
		total = total.Add(c.Amount)
	}
	return total
}
