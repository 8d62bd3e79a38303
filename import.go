package grantbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// This file contains the first stage of the import pipeline: normalizing
// flat description/amount/category rows into budget categories, under a
// user-declared column mapping and category mapping.

// Row is one spreadsheet row keyed by column header.
type Row map[string]string

// ColumnMapping declares which spreadsheet column feeds each logical field
// of a flat category import. Amount is mandatory, the others are optional.
type ColumnMapping struct {
	Description string
	Amount      string
	Category    string
}

// CategoryMapping resolves raw spreadsheet category values to the fixed
// target labels. Unmapped values fall back to [DefaultCategoryLabel].
type CategoryMapping map[string]string

// DefaultCategoryLabel is the target label used when a raw category value is
// unmapped, or when no category column is mapped at all.
const DefaultCategoryLabel = "Other"

// Resolve maps a raw category value to its target label.
func (m CategoryMapping) Resolve(raw string) string {
	if label, ok := m[strings.TrimSpace(raw)]; ok && label != "" {
		return label
	}
	return DefaultCategoryLabel
}

var amountScrubRE = regexp.MustCompile(`[^0-9.\-]`)

// ParseCellAmount turns a raw spreadsheet cell into an amount: every
// character outside [0-9.-] is stripped (currency symbols, thousand
// separators, stray spaces), and the remainder is float-parsed. An empty or
// unparseable cell yields zero.
func ParseCellAmount(raw string) Money {
	cleaned := amountScrubRE.ReplaceAllString(raw, "")
	if cleaned == "" {
		return Money{}
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Money{}
	}
	return M(v, "")
}

// NormalizeCategories maps flat spreadsheet rows into budget categories.
//
// Each row yields at most one "other"-type category: the amount cell is
// scrubbed and parsed with [ParseCellAmount], rows with a resulting amount
// of zero or less are excluded, the category label is resolved through
// 'categories' (defaulting to [DefaultCategoryLabel]), and the description
// defaults to empty when its column is unmapped. Ids are left blank for the
// store to assign.
func NormalizeCategories(rows []Row, columns ColumnMapping, categories CategoryMapping) ([]BudgetCategory, error) {
	if columns.Amount == "" {
		return nil, fmt.Errorf("column mapping requires an amount column")
	}

	out := make([]BudgetCategory, 0, len(rows))
	for _, row := range rows {
		amount := ParseCellAmount(row[columns.Amount])
		if !amount.IsPositive() {
			continue
		}

		label := DefaultCategoryLabel
		if columns.Category != "" {
			label = categories.Resolve(row[columns.Category])
		}

		var description string
		if columns.Description != "" {
			description = strings.TrimSpace(row[columns.Description])
		}

		out = append(out, BudgetCategory{
			Category:    label,
			Type:        Other,
			Amount:      amount,
			Description: description,
		})
	}
	return out, nil
}

// ReadRows reads a CSV stream whose first record is the header row and
// returns one [Row] per data record, keyed by trimmed header.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are normal in hand-edited sheets

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseCategoryMapping parses a "raw=Target,raw2=Target2" flag value into a
// CategoryMapping.
func ParseCategoryMapping(s string) (CategoryMapping, error) {
	m := make(CategoryMapping)
	if strings.TrimSpace(s) == "" {
		return m, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid category mapping entry %q, want raw=Target", pair)
		}
		m[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return m, nil
}
