package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/orderscrape"
)

// DefaultTableName is the table orders are written to.
const DefaultTableName = "orders"

// Column affinities.
const (
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeText    = "TEXT"
)

// Ensure Writer implements orderscrape.TableWriter at compile time.
var _ orderscrape.TableWriter = (*Writer)(nil)

// Writer writes an orders table into a SQLite database file, replacing the
// table on every write.
type Writer struct {
	Table string
}

// NewWriter creates a Writer targeting the orders table.
func NewWriter() *Writer {
	return &Writer{Table: DefaultTableName}
}

// WriteTable opens the database at path and replaces the table with t in a
// single transaction. Other tables in the database are left alone.
func (w *Writer) WriteTable(ctx context.Context, path string, t *orderscrape.OrderTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	db := NewDB(path)
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	return w.Replace(ctx, db, t)
}

// Replace drops and recreates the table in db and inserts every row of t.
// Column names that differ only by case get a ".n" suffix, since SQLite
// compares identifiers case-insensitively.
func (w *Writer) Replace(ctx context.Context, db *DB, t *orderscrape.OrderTable) error {
	table := quoteIdent(w.Table)
	columns := ColumnNames(t)
	types := ColumnTypes(t)

	defs := make([]string, len(columns))
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for j, c := range columns {
		names[j] = quoteIdent(c)
		defs[j] = names[j] + " " + types[j]
		marks[j] = "?"
	}

	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for i, row := range t.Rows() {
		for j, v := range row {
			args[j] = sqlValue(v, types[j])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// ColumnNames returns the SQL column names for t, in column order.
func ColumnNames(t *orderscrape.OrderTable) []string {
	return orderscrape.DedupeColumnsFold(t.Columns())
}

// ColumnTypes infers a column type for every column of t: INTEGER when all
// non-null cells are integral numbers, REAL when they are numbers, and TEXT
// otherwise. Dates are stored as text.
func ColumnTypes(t *orderscrape.OrderTable) []string {
	types := make([]string, len(t.Columns()))
	for j := range types {
		switch {
		case t.IntegerColumn(j):
			types[j] = TypeInteger
		case t.ColumnKind(j) == orderscrape.KindNumber:
			types[j] = TypeReal
		default:
			types[j] = TypeText
		}
	}
	return types
}

func sqlValue(v orderscrape.Value, typ string) any {
	if v.IsNull() {
		return nil
	}
	switch typ {
	case TypeInteger:
		n, _ := v.AsNumber()
		return int64(n)
	case TypeReal:
		n, _ := v.AsNumber()
		return n
	}
	return v.String()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
