package excelize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/orderscrape"
	oxl "github.com/fwojciec/orderscrape/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ordersTable(t *testing.T) *orderscrape.OrderTable {
	t.Helper()

	parse := orderscrape.ParseValue
	table, err := orderscrape.DefaultSchema().Normalize(&orderscrape.Table{
		Columns: []string{"order_id", "date", "total", "customer", "status"},
		Rows: [][]orderscrape.Value{
			{parse("2"), parse("2024-06-02"), parse("20"), parse("Beta"), parse("")},
			{parse("1"), parse("2024-06-01"), parse("10.5"), parse("Acme"), parse("Open")},
		},
	})
	require.NoError(t, err)
	return table.SortBy(orderscrape.DefaultSortColumns...)
}

func openSheet(t *testing.T, path string) *excelize.File {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, addr string, opts ...excelize.Options) string {
	t.Helper()

	v, err := f.GetCellValue(oxl.SheetName, addr, opts...)
	require.NoError(t, err)
	return v
}

func TestWriter_WriteTable(t *testing.T) {
	t.Parallel()

	t.Run("writes header and rows on a single sheet", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "orders.xlsx")

		err := oxl.NewWriter().WriteTable(context.Background(), path, ordersTable(t))
		require.NoError(t, err)

		f := openSheet(t, path)
		assert.Equal(t, []string{oxl.SheetName}, f.GetSheetList())

		rows, err := f.GetRows(oxl.SheetName)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"order_id", "date", "total", "customer", "status", "po", "workstation", "due"}, rows[0])
		assert.Equal(t, "1", cell(t, f, "A2"))
		assert.Equal(t, "Acme", cell(t, f, "D2"))
		assert.Equal(t, "2", cell(t, f, "A3"))
		assert.Equal(t, "", cell(t, f, "E3"))
	})

	t.Run("stores numbers as numbers", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "orders.xlsx")
		require.NoError(t, oxl.NewWriter().WriteTable(context.Background(), path, ordersTable(t)))

		f := openSheet(t, path)
		assert.Equal(t, "10.5", cell(t, f, "C2", excelize.Options{RawCellValue: true}))
	})

	t.Run("stores dates as formatted date serials", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "orders.xlsx")
		require.NoError(t, oxl.NewWriter().WriteTable(context.Background(), path, ordersTable(t)))

		f := openSheet(t, path)
		assert.Equal(t, "2024-06-01", cell(t, f, "B2"))
		assert.Equal(t, "45444", cell(t, f, "B2", excelize.Options{RawCellValue: true}))
	})

	t.Run("creates parent directories and replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "orders.xlsx")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

		err := oxl.NewWriter().WriteTable(context.Background(), path, ordersTable(t))
		require.NoError(t, err)

		f := openSheet(t, path)
		assert.Equal(t, "order_id", cell(t, f, "A1"))
	})
}
