package grantbook

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// This file contains the second stage of the import pipeline: the structured
// grant+budget import, one spreadsheet row per grant. Rows are processed
// strictly sequentially with per-row isolation: a skipped or malformed row
// never aborts the rest of the batch.

// ImportResult reports the outcome of a structured grant import. A
// top-level failure (the file cannot be opened or parsed at all) is a single
// error result with zero partial commits.
type ImportResult struct {
	Success         bool   `json:"success"`
	GrantsCount     int    `json:"grantsCount,omitempty"`
	CategoriesCount int    `json:"categoriesCount,omitempty"`
	Error           string `json:"error,omitempty"`
}

// headerAliases maps each logical import field to the accepted spreadsheet
// header spellings, compared case-insensitively after trimming.
var headerAliases = map[string][]string{
	"title":  {"title", "grant title", "project title", "name"},
	"agency": {"agency", "funding agency", "sponsor"},
	"number": {"number", "grant number", "award number"},

	"totalAmount": {"total amount", "total", "total budget"},
	"startDate":   {"start date", "start"},
	"endDate":     {"end date", "end"},
	"description": {"description", "summary"},
	"status":      {"status"},

	"piSalary":      {"pi salary"},
	"piMonthlyRate": {"pi monthly rate", "monthly rate"},
	"piMonths":      {"pi months", "number of months"},

	"studentSalary":      {"student salary"},
	"studentMonthlyRate": {"student monthly rate"},
	"studentMonths":      {"student months"},
	"numberOfStudents":   {"number of students", "students"},

	"travel":        {"travel"},
	"numberOfTrips": {"number of trips", "trips"},
	"costPerTrip":   {"cost per trip"},

	"materials":   {"materials", "materials & supplies", "supplies"},
	"publication": {"publication", "publications"},

	"tuition":       {"tuition"},
	"yearlyRate":    {"yearly rate", "tuition rate"},
	"numberOfYears": {"number of years", "years"},
}

// genericPairs is the number of "Category N"/"Amount N" column pairs honored
// for backward compatibility with older sheets.
const genericPairs = 10

// resolveHeaders maps the logical field keys onto column indexes of the
// header row.
func resolveHeaders(header []string) map[string]int {
	canon := make(map[string]int, len(header))
	for i, h := range header {
		canon[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			if i, ok := canon[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	for n := 1; n <= genericPairs; n++ {
		if i, ok := canon[fmt.Sprintf("category %d", n)]; ok {
			cols[fmt.Sprintf("category%d", n)] = i
		}
		if i, ok := canon[fmt.Sprintf("amount %d", n)]; ok {
			cols[fmt.Sprintf("amount%d", n)] = i
		}
	}
	return cols
}

// cell returns the trimmed cell for a logical field, or "" when the column
// is absent or the row too short.
func cell(row []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCellDate normalizes a spreadsheet date cell: a numeric cell is
// decoded as a spreadsheet serial date, a textual one is tried against
// common layouts. An unparseable cell is reported so the caller can log the
// raw value it falls back from.
func parseCellDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return Date{}, fmt.Errorf("invalid spreadsheet serial date %q: %w", raw, err)
		}
		return NewDate(t.Date()), nil
	}
	for _, layout := range []string{readDateFormat, "1/2/2006", "2006/1/2", "Jan 2, 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return NewDate(t.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("unparseable date %q", raw)
}

// semanticCategory synthesizes one derivable-or-flat category from a row's
// semantic amount column and its parameter columns. When a derivable type
// ships an amount but no usable parameters, minimal parameters reproducing
// that amount are inferred (unit quantities, rate equal to the amount) so
// the derived-amount invariant holds for the imported category.
func semanticCategory(typ CategoryType, label string, amount Money, row []string, cols map[string]int) (BudgetCategory, error) {
	c := BudgetCategory{Category: label, Type: typ, Amount: amount}
	num := func(field string) decimal.Decimal { return ParseCellAmount(cell(row, cols, field)).Decimal() }

	switch typ {
	case PISalary:
		c.MonthlyRate = ParseCellAmount(cell(row, cols, "piMonthlyRate"))
		c.NumberOfMonths = num("piMonths")
	case StudentSalary:
		c.MonthlyRate = ParseCellAmount(cell(row, cols, "studentMonthlyRate"))
		c.NumberOfMonths = num("studentMonths")
		c.NumberOfStudents = num("numberOfStudents")
	case Travel:
		c.CostPerTrip = ParseCellAmount(cell(row, cols, "costPerTrip"))
		c.NumberOfTrips = num("numberOfTrips")
	case Tuition:
		c.YearlyRate = ParseCellAmount(cell(row, cols, "yearlyRate"))
		c.NumberOfYears = num("numberOfYears")
		c.NumberOfStudents = num("numberOfStudents")
	}

	if typ.Derivable() {
		derived, err := Compute(typ, c.Params())
		if err != nil {
			return BudgetCategory{}, err
		}
		if derived.IsZero() && amount.IsPositive() {
			one := decimal.NewFromInt(1)
			switch typ {
			case PISalary:
				c.MonthlyRate, c.NumberOfMonths = amount, one
			case StudentSalary:
				c.MonthlyRate, c.NumberOfMonths, c.NumberOfStudents = amount, one, one
			case Travel:
				c.CostPerTrip, c.NumberOfTrips = amount, one
			case Tuition:
				c.YearlyRate, c.NumberOfYears, c.NumberOfStudents = amount, one, one
			}
		}
	}

	if err := c.Recompute(); err != nil {
		return BudgetCategory{}, err
	}
	return c, nil
}

// semanticTypes drives the per-row category synthesis, in sheet order.
var semanticTypes = []struct {
	field string
	typ   CategoryType
	label string
}{
	{"piSalary", PISalary, "PI Salary"},
	{"studentSalary", StudentSalary, "Student Salary"},
	{"travel", Travel, "Travel"},
	{"materials", Materials, "Materials"},
	{"publication", Publication, "Publication"},
	{"tuition", Tuition, "Tuition"},
}

// normalizeGrantRow maps one spreadsheet row into a candidate grant. It
// returns false when the row is empty or misses a required field.
func normalizeGrantRow(row []string, cols map[string]int, line int) (Grant, bool) {
	title := cell(row, cols, "title")
	agency := cell(row, cols, "agency")
	number := cell(row, cols, "number")
	if title == "" || agency == "" || number == "" {
		if title != "" || agency != "" || number != "" {
			log.Printf("import-skip-row line=%d title=%q agency=%q number=%q", line, title, agency, number)
		}
		return Grant{}, false
	}

	g := Grant{
		Title:       title,
		Agency:      agency,
		Number:      number,
		TotalAmount: ParseCellAmount(cell(row, cols, "totalAmount")),
		Description: cell(row, cols, "description"),
		Status:      StatusActive,
	}
	if raw := cell(row, cols, "status"); raw != "" {
		status, err := ParseGrantStatus(raw)
		if err != nil {
			log.Printf("import-default-status line=%d status=%q", line, raw)
			status = StatusActive
		}
		g.Status = status
	}
	for raw, dst := range map[string]*Date{"startDate": &g.StartDate, "endDate": &g.EndDate} {
		d, err := parseCellDate(cell(row, cols, raw))
		if err != nil {
			log.Printf("import-bad-date line=%d field=%s: %v", line, raw, err)
			continue
		}
		*dst = d
	}

	for _, st := range semanticTypes {
		amount := ParseCellAmount(cell(row, cols, st.field))
		if !amount.IsPositive() {
			continue
		}
		c, err := semanticCategory(st.typ, st.label, amount, row, cols)
		if err != nil {
			log.Printf("import-skip-category line=%d type=%s: %v", line, st.typ, err)
			continue
		}
		g.BudgetCategories = append(g.BudgetCategories, c)
	}
	for n := 1; n <= genericPairs; n++ {
		amount := ParseCellAmount(cell(row, cols, fmt.Sprintf("amount%d", n)))
		if !amount.IsPositive() {
			continue
		}
		label := cell(row, cols, fmt.Sprintf("category%d", n))
		if label == "" {
			label = DefaultCategoryLabel
		}
		g.BudgetCategories = append(g.BudgetCategories, BudgetCategory{
			Category: label,
			Type:     Other,
			Amount:   amount,
		})
	}
	return g, true
}

// NormalizeGrantRows maps raw spreadsheet rows (header row first) into
// candidate grants. Rows missing a required field are skipped, not errors.
func NormalizeGrantRows(rows [][]string) []Grant {
	if len(rows) < 2 {
		return nil
	}
	cols := resolveHeaders(rows[0])

	var grants []Grant
	for i, row := range rows[1:] {
		g, ok := normalizeGrantRow(row, cols, i+2)
		if !ok {
			continue
		}
		grants = append(grants, g)
	}
	return grants
}

// ImportGrantsFromExcel ingests grants and their budget categories from an
// .xlsx workbook. The first sheet is read; the first row must be the header
// row. Created grants are committed in a single document write, so a source
// that cannot be read at all commits nothing.
func (s *Store) ImportGrantsFromExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Error: fmt.Sprintf("cannot open workbook %q: %v", path, err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Error: fmt.Sprintf("workbook %q has no sheets", path)}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Error: fmt.Sprintf("cannot read sheet %q: %v", sheets[0], err)}
	}

	grants := NormalizeGrantRows(rows)

	l, err := s.load()
	if err != nil {
		return ImportResult{Error: err.Error()}
	}
	now := time.Now()
	var result ImportResult
	for _, g := range grants {
		g.ID = uuid.NewString()
		g.CreatedAt = now
		g.UpdatedAt = now
		for i := range g.BudgetCategories {
			g.BudgetCategories[i].ID = uuid.NewString()
			g.BudgetCategories[i].CreatedAt = now
		}
		stored, err := l.AppendGrant(g)
		if err != nil {
			// Per-row isolation: a rejected grant does not abort the batch.
			log.Printf("import-skip-grant title=%q: %v", g.Title, err)
			continue
		}
		result.GrantsCount++
		result.CategoriesCount += len(stored.BudgetCategories)
	}

	if err := s.save(l); err != nil {
		return ImportResult{Error: err.Error()}
	}
	result.Success = true
	log.Printf("import-done file=%q grants=%d categories=%d", path, result.GrantsCount, result.CategoriesCount)
	return result
}
