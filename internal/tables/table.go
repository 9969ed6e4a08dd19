package tables

import (
	"slices"

	gerr "github.com/jekabolt/grbpwr-dashboard/internal/errors"
)

// Table names as delivered by a loader.
const (
	Orders     = "orders"
	OrderItems = "order_items"
	Products   = "products"
	Customers  = "customers"
	Reviews    = "reviews"
)

// Names lists every table a snapshot is built from.
func Names() []string {
	return []string{Orders, OrderItems, Products, Customers, Reviews}
}

// Table is a loaded, string-valued table. Rows are aligned with Columns.
// A Table is not safe for concurrent use; it is consumed once by
// NewRawTableSet.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Raw is the set of tables delivered by a loader, keyed by table name.
type Raw map[string]*Table

// NewTable creates a table with the given header.
func NewTable(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. Short rows are padded with empty cells.
func (t *Table) Append(row []string) {
	if len(row) < len(t.Columns) {
		padded := make([]string, len(t.Columns))
		copy(padded, row)
		row = padded
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			if _, ok := t.index[c]; !ok {
				t.index[c] = i
			}
		}
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the table exposes the column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Require returns a *gerr.SchemaError listing every column in cols the
// table does not expose.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) && !slices.Contains(missing, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &gerr.SchemaError{Table: t.Name, Missing: missing}
	}
	return nil
}

// Value returns the cell at row i for the named column. Columns absent from
// the table read as empty.
func (t *Table) Value(i int, column string) string {
	c := t.ColumnIndex(column)
	if c < 0 || c >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][c]
}
