// Package grantbook provides a set of functions and types for tracking
// research grants, their budget allocations, and dated expenditures against
// those allocations. It is designed to be local-first and auditable: the
// whole book lives in a single human-readable JSON document, and every
// operation is an explicit load-then-mutate-then-save cycle over that
// document.
//
// The package covers four concerns:
//
//   - the budget category calculator, deriving a category amount from its
//     type and rate/quantity parameters (see [Compute]),
//   - the grant ledger, an in-memory view of the document with cascade-delete
//     integrity between grants and expenses (see [Ledger]),
//   - the import normalizer, turning arbitrary spreadsheet rows into
//     validated grants and budget categories (see [NormalizeCategories] and
//     [Store.ImportGrantsFromExcel]),
//   - date-ranged, grant-filtered expense reporting (see
//     [Ledger.ExpensesInRange]).
//
// The companion command line tool lives in the grb directory.
package grantbook
