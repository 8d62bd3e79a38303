package grantbook

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the codec for the grant book document: one JSON object
// with top-level "grants" and "expenses" arrays. The document stays
// human-readable and git-friendly, and carries no schema version marker;
// unknown fields are ignored on read so that future writers can add fields
// without breaking older readers.

// jdocument mirrors the persisted document layout.
type jdocument struct {
	Grants   []Grant   `json:"grants"`
	Expenses []Expense `json:"expenses"`
}

// DecodeLedger reads a whole grant book document from 'r'.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var doc jdocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse grant book document: %w", err)
	}

	l := NewLedger()
	for _, g := range doc.Grants {
		if g.BudgetCategories == nil {
			g.BudgetCategories = make([]BudgetCategory, 0)
		}
		l.grants = append(l.grants, g)
	}
	l.expenses = append(l.expenses, doc.Expenses...)
	return l, nil
}

// EncodeLedger writes the whole grant book document to 'w' in a canonical,
// indented form.
func EncodeLedger(w io.Writer, l *Ledger) error {
	doc := jdocument{
		Grants:   l.grants,
		Expenses: l.expenses,
	}
	if doc.Grants == nil {
		doc.Grants = make([]Grant, 0)
	}
	if doc.Expenses == nil {
		doc.Expenses = make([]Expense, 0)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal grant book document: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write grant book document: %w", err)
	}
	return nil
}
