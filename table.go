package orderscrape

import (
	"slices"
)

// RawDocument is an HTML page as fetched from the portal.
type RawDocument struct {
	URL  string
	HTML string
}

// Table is a candidate table found in a document: a header row plus data
// rows. Rows may be shorter than the header.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// OrderTable is a validated, normalized orders table. Every row holds
// exactly one value per column. OrderTable values are immutable; accessors
// return copies.
type OrderTable struct {
	columns []string
	rows    [][]Value
}

// Columns returns the column names in output order.
func (t *OrderTable) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *OrderTable) Len() int {
	return len(t.rows)
}

// Row returns a copy of row i.
func (t *OrderTable) Row(i int) []Value {
	return slices.Clone(t.rows[i])
}

// Rows returns a copy of all rows.
func (t *OrderTable) Rows() [][]Value {
	return t.Table().Rows
}

// ColumnIndex returns the position of the named column, or -1.
func (t *OrderTable) ColumnIndex(name string) int {
	return slices.Index(t.columns, name)
}

// Value returns the cell at row i for the named column.
func (t *OrderTable) Value(i int, column string) (Value, bool) {
	j := t.ColumnIndex(column)
	if j < 0 {
		return Value{}, false
	}
	return t.rows[i][j], true
}

// ColumnKind returns the kind shared by every non-null cell of column j.
// Columns mixing kinds report KindText; all-null columns report KindNull.
func (t *OrderTable) ColumnKind(j int) Kind {
	kind := KindNull
	for _, row := range t.rows {
		k := row[j].Kind()
		if k == KindNull {
			continue
		}
		if kind == KindNull {
			kind = k
		} else if kind != k {
			return KindText
		}
	}
	return kind
}

// IntegerColumn reports whether every non-null cell of column j is an
// integral Number.
func (t *OrderTable) IntegerColumn(j int) bool {
	if t.ColumnKind(j) != KindNumber {
		return false
	}
	for _, row := range t.rows {
		if !row[j].IsNull() && !row[j].IsInteger() {
			return false
		}
	}
	return true
}

// Table returns a mutable deep copy of t as a candidate Table.
func (t *OrderTable) Table() *Table {
	return (&Table{Columns: t.columns, Rows: t.rows}).Clone()
}

// SortBy returns a copy of t with rows stably sorted by the named columns in
// ascending order. Unknown column names are ignored, so rows keep their
// encounter order when no key applies.
func (t *OrderTable) SortBy(columns ...string) *OrderTable {
	var keys []int
	for _, name := range columns {
		if j := t.ColumnIndex(name); j >= 0 {
			keys = append(keys, j)
		}
	}

	out := t.Table()
	slices.SortStableFunc(out.Rows, func(a, b []Value) int {
		for _, j := range keys {
			if c := a[j].Compare(b[j]); c != 0 {
				return c
			}
		}
		return 0
	})
	return &OrderTable{columns: out.Columns, rows: out.Rows}
}

// Record is a row keyed by column name, in column order.
type Record struct {
	Columns []string
	Values  []Value
}

// Get returns the value for the named column.
func (r Record) Get(column string) (Value, bool) {
	i := slices.Index(r.Columns, column)
	if i < 0 {
		return Value{}, false
	}
	return r.Values[i], true
}

// Records returns the rows as column-keyed records.
func (t *OrderTable) Records() []Record {
	records := make([]Record, len(t.rows))
	for i, row := range t.rows {
		records[i] = Record{Columns: t.columns, Values: slices.Clone(row)}
	}
	return records
}
