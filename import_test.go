package grantbook

import (
	"strings"
	"testing"
)

func TestParseCellAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want Money
	}{
		{"1500", M(1500, "")},
		{"$1,500.50", M(1500.50, "")},
		{"  1 200 USD ", M(1200, "")},
		{"-42", M(-42, "")},
		{"", M(0, "")},
		{"n/a", M(0, "")},
		{"..", M(0, "")},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseCellAmount(tt.raw); !got.Equal(tt.want) {
				t.Errorf("ParseCellAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeCategories(t *testing.T) {
	rows := []Row{
		{"Desc": "PI summer salary", "Cost": "$30,000", "Kind": "salaries"},
		{"Desc": "Laptops", "Cost": "2500.75", "Kind": "equipment"},
		{"Desc": "Zero line", "Cost": "0", "Kind": "salaries"},
		{"Desc": "Refund", "Cost": "-100", "Kind": "equipment"},
		{"Desc": "Unmapped", "Cost": "10", "Kind": "mystery"},
	}
	columns := ColumnMapping{Description: "Desc", Amount: "Cost", Category: "Kind"}
	mapping := CategoryMapping{"salaries": "PI Salary", "equipment": "Materials"}

	got, err := NormalizeCategories(rows, columns, mapping)
	if err != nil {
		t.Fatalf("NormalizeCategories() error = %v", err)
	}

	// Zero and negative amounts are excluded.
	if len(got) != 3 {
		t.Fatalf("NormalizeCategories() kept %d rows, want 3: %v", len(got), got)
	}
	if got[0].Category != "PI Salary" || !got[0].Amount.Equal(M(30000, "")) {
		t.Errorf("row 0 = %+v, want PI Salary / 30000", got[0])
	}
	if got[1].Category != "Materials" || got[1].Description != "Laptops" {
		t.Errorf("row 1 = %+v, want Materials / Laptops", got[1])
	}
	// Unmapped raw categories land on the default label.
	if got[2].Category != DefaultCategoryLabel {
		t.Errorf("unmapped category = %q, want %q", got[2].Category, DefaultCategoryLabel)
	}
}

func TestNormalizeCategories_NoCategoryColumn(t *testing.T) {
	rows := []Row{{"Cost": "100"}}
	got, err := NormalizeCategories(rows, ColumnMapping{Amount: "Cost"}, nil)
	if err != nil {
		t.Fatalf("NormalizeCategories() error = %v", err)
	}
	if len(got) != 1 || got[0].Category != DefaultCategoryLabel || got[0].Description != "" {
		t.Errorf("NormalizeCategories() = %+v, want default label and empty description", got)
	}
}

func TestNormalizeCategories_AmountMandatory(t *testing.T) {
	if _, err := NormalizeCategories(nil, ColumnMapping{Description: "Desc"}, nil); err == nil {
		t.Error("NormalizeCategories() without an amount column expected an error")
	}
}

func TestReadRows(t *testing.T) {
	csv := "Desc,Cost,Kind\nLaptops,2500,equipment\nTravel to NeurIPS,1800\n"
	rows, err := ReadRows(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ReadRows() returned %d rows, want 2", len(rows))
	}
	if rows[0]["Cost"] != "2500" || rows[0]["Kind"] != "equipment" {
		t.Errorf("row 0 = %v", rows[0])
	}
	// Ragged rows simply miss the trailing cells.
	if rows[1]["Desc"] != "Travel to NeurIPS" || rows[1]["Kind"] != "" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestParseCategoryMapping(t *testing.T) {
	m, err := ParseCategoryMapping("salaries=PI Salary, equipment=Materials")
	if err != nil {
		t.Fatalf("ParseCategoryMapping() error = %v", err)
	}
	if m.Resolve("salaries") != "PI Salary" || m.Resolve("equipment") != "Materials" {
		t.Errorf("ParseCategoryMapping() = %v", m)
	}
	if m.Resolve("unknown") != DefaultCategoryLabel {
		t.Errorf("Resolve(unknown) = %q, want %q", m.Resolve("unknown"), DefaultCategoryLabel)
	}
	if _, err := ParseCategoryMapping("oops"); err == nil {
		t.Error("ParseCategoryMapping(\"oops\") expected an error")
	}
}
