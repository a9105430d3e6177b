package orderscrape

import (
	"slices"
	"strconv"
	"strings"
)

// Default column vocabularies for the orders listing.
var (
	DefaultRequiredColumns = []string{"order_id", "date", "total"}
	DefaultOptionalColumns = []string{"customer", "po", "workstation", "status", "due"}
	DefaultSortColumns     = []string{"order_id", "date"}
)

// Normalizer turns a candidate table into a canonical orders table.
type Normalizer interface {
	// Normalize validates and cleans t.
	// Returns ESCHEMA if required columns are missing.
	Normalize(t *Table) (*OrderTable, error)
}

var _ Normalizer = (*Schema)(nil)

// Schema describes the columns an orders table must and may carry.
type Schema struct {
	// Required columns must be present after header normalization.
	Required []string

	// Optional columns are added with an empty text value when absent.
	Optional []string

	// SortColumns define the canonical row order used for output.
	SortColumns []string
}

// DefaultSchema returns the schema used when the deployment configures none.
func DefaultSchema() *Schema {
	return &Schema{
		Required:    slices.Clone(DefaultRequiredColumns),
		Optional:    slices.Clone(DefaultOptionalColumns),
		SortColumns: slices.Clone(DefaultSortColumns),
	}
}

// Validate returns an error if the schema is unusable.
func (s *Schema) Validate() error {
	if len(s.Required) == 0 {
		return Errorf(EINVALID, "schema requires at least one required column")
	}
	for _, c := range s.Optional {
		if slices.Contains(s.Required, c) {
			return Errorf(EINVALID, "column %q is both required and optional", c)
		}
	}
	return nil
}

// Canonical returns t sorted into canonical output order.
func (s *Schema) Canonical(t *OrderTable) *OrderTable {
	return t.SortBy(s.SortColumns...)
}

// NormalizeHeader trims a header label and collapses embedded newlines
// into spaces.
func NormalizeHeader(label string) string {
	label = strings.TrimSpace(label)
	label = strings.ReplaceAll(label, "\r\n", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.ReplaceAll(label, "\r", " ")
}

// Normalize cleans t into an OrderTable. Row order is preserved and
// duplicate rows are kept. Columns that are blank in every row are dropped
// unless the table has no rows at all. Labels that collide once normalized
// are suffixed the way DedupeColumns does.
func (s *Schema) Normalize(t *Table) (*OrderTable, error) {
	if t == nil {
		return nil, Errorf(EINVALID, "table required")
	}

	width := len(t.Columns)
	for i, row := range t.Rows {
		if len(row) > width {
			return nil, Errorf(EINVALID, "row %d has %d cells, header has %d", i, len(row), width)
		}
	}

	cell := func(row []Value, j int) Value {
		if j < len(row) {
			return row[j]
		}
		return Null()
	}

	var keep []int
	for j := 0; j < width; j++ {
		if len(t.Rows) == 0 || !blankColumn(t.Rows, j) {
			keep = append(keep, j)
		}
	}

	columns := make([]string, 0, len(keep)+len(s.Optional))
	for _, j := range keep {
		columns = append(columns, NormalizeHeader(t.Columns[j]))
	}
	columns = DedupeColumns(columns)

	rows := make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]Value, 0, cap(columns))
		for _, j := range keep {
			v := cell(row, j)
			if v.Kind() == KindText {
				v = Text(strings.TrimSpace(v.AsText()))
			}
			out = append(out, v)
		}
		rows[i] = out
	}

	var missing []string
	for _, c := range s.Required {
		if !slices.Contains(columns, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{
			Code:    ESCHEMA,
			Message: "missing required columns: " + strings.Join(missing, ", "),
			Columns: missing,
		}
	}

	for _, c := range s.Optional {
		if slices.Contains(columns, c) {
			continue
		}
		columns = append(columns, c)
		for i := range rows {
			rows[i] = append(rows[i], Text(""))
		}
	}

	return &OrderTable{columns: columns, rows: rows}, nil
}

func blankColumn(rows [][]Value, j int) bool {
	for _, row := range rows {
		if j < len(row) && !row[j].IsBlank() {
			return false
		}
	}
	return true
}

// DedupeColumns suffixes repeated names with ".1", ".2", ... so every
// column can be addressed by name. The first occurrence keeps its name.
func DedupeColumns(columns []string) []string {
	return dedupe(columns, func(s string) string { return s })
}

// DedupeColumnsFold is like DedupeColumns but compares names
// case-insensitively, as SQL identifiers are compared.
func DedupeColumnsFold(columns []string) []string {
	return dedupe(columns, strings.ToLower)
}

func dedupe(columns []string, key func(string) string) []string {
	used := make(map[string]bool, len(columns))
	out := make([]string, len(columns))
	for i, c := range columns {
		name := c
		for n := 1; used[key(name)]; n++ {
			name = c + "." + strconv.Itoa(n)
		}
		used[key(name)] = true
		out[i] = name
	}
	return out
}
