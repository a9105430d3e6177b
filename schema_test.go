package orderscrape_test

import (
	"testing"

	"github.com/fwojciec/orderscrape"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	txt = orderscrape.Text
	num = orderscrape.Number
	nul = orderscrape.Null
)

func date(s string) orderscrape.Value {
	v := orderscrape.ParseValue(s)
	if v.Kind() != orderscrape.KindDate {
		panic("not a date: " + s)
	}
	return v
}

// scenarioTable is the orders listing with a duplicated row out of order.
func scenarioTable() *orderscrape.Table {
	return &orderscrape.Table{
		Columns: []string{"order_id", "date", "total"},
		Rows: [][]orderscrape.Value{
			{num(2), date("2024-06-02"), num(20)},
			{num(1), date("2024-06-01"), num(10)},
			{num(1), date("2024-06-01"), num(10)},
			{num(3), date("2024-06-03"), num(30)},
		},
	}
}

func valueStrings(rows [][]orderscrape.Value) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = v.String()
		}
	}
	return out
}

var valueComparer = cmp.Comparer(func(a, b orderscrape.Value) bool { return a.Equal(b) })

func TestSchema_Normalize(t *testing.T) {
	t.Parallel()

	schema := &orderscrape.Schema{
		Required:    []string{"order_id", "date", "total"},
		Optional:    []string{"customer", "status"},
		SortColumns: []string{"order_id", "date"},
	}

	t.Run("keeps duplicate rows in source order", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(scenarioTable())

		require.NoError(t, err)
		require.Equal(t, 4, table.Len())
		assert.Equal(t, []string{"order_id", "date", "total", "customer", "status"}, table.Columns())
		assert.Equal(t, [][]string{
			{"2", "2024-06-02", "20", "", ""},
			{"1", "2024-06-01", "10", "", ""},
			{"1", "2024-06-01", "10", "", ""},
			{"3", "2024-06-03", "30", "", ""},
		}, valueStrings(table.Rows()))
	})

	t.Run("canonical order sorts by order id then date", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(scenarioTable())
		require.NoError(t, err)

		sorted := schema.Canonical(table)

		var ids []string
		for _, row := range sorted.Rows() {
			ids = append(ids, row[0].String())
		}
		assert.Equal(t, []string{"1", "1", "2", "3"}, ids)
		assert.Equal(t, "2", table.Row(0)[0].String(), "source table is not modified")
	})

	t.Run("normalizes header labels", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"  order_id ", "date", "total", "ship\nto"},
			Rows:    [][]orderscrape.Value{{num(1), date("2024-06-01"), num(5), txt("Dock")}},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"order_id", "date", "total", "ship to", "customer", "status"}, table.Columns())
	})

	t.Run("suffixes labels that collide once normalized", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id", "date", "total", "note ", "note", "note\n"},
			Rows:    [][]orderscrape.Value{{num(1), date("2024-06-01"), num(5), txt("a"), txt("b"), txt("c")}},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"order_id", "date", "total", "note", "note.1", "note.2", "customer", "status"}, table.Columns())
		v, ok := table.Value(0, "note.1")
		require.True(t, ok)
		assert.Equal(t, "b", v.AsText())
	})

	t.Run("drops columns that are blank in every row", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id", "empty", "date", "total"},
			Rows: [][]orderscrape.Value{
				{num(1), nul(), date("2024-06-01"), num(5)},
				{num(2), txt("  "), date("2024-06-02"), num(6)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, -1, table.ColumnIndex("empty"))
	})

	t.Run("keeps columns of a table without rows", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id", "date", "total"},
		})

		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
		assert.Equal(t, []string{"order_id", "date", "total", "customer", "status"}, table.Columns())
	})

	t.Run("trims text cells", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id", "date", "total", "customer"},
			Rows:    [][]orderscrape.Value{{txt(" A-1 "), date("2024-06-01"), num(5), txt("\tAcme ")}},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"A-1", "2024-06-01", "5", "Acme", ""}, valueStrings(table.Rows())[0])
	})

	t.Run("pads short rows", func(t *testing.T) {
		t.Parallel()

		table, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id", "date", "total"},
			Rows: [][]orderscrape.Value{
				{num(1), date("2024-06-01"), num(5)},
				{num(2)},
			},
		})

		require.NoError(t, err)
		row := table.Row(1)
		require.Len(t, row, 5)
		assert.True(t, row[1].IsNull())
	})

	t.Run("rejects rows wider than the header", func(t *testing.T) {
		t.Parallel()

		_, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id"},
			Rows:    [][]orderscrape.Value{{num(1), num(2)}},
		})

		assert.Equal(t, orderscrape.EINVALID, orderscrape.ErrorCode(err))
	})

	t.Run("rejects nil table", func(t *testing.T) {
		t.Parallel()

		_, err := schema.Normalize(nil)

		assert.Equal(t, orderscrape.EINVALID, orderscrape.ErrorCode(err))
	})
}

func TestSchema_Normalize_RequiredColumns(t *testing.T) {
	t.Parallel()

	schema := orderscrape.DefaultSchema()

	tests := []struct {
		name    string
		columns []string
		missing []string
	}{
		{name: "all missing", columns: []string{"a", "b"}, missing: []string{"order_id", "date", "total"}},
		{name: "one missing", columns: []string{"order_id", "date", "amount"}, missing: []string{"total"}},
		{name: "case sensitive", columns: []string{"Order_ID", "date", "total"}, missing: []string{"order_id"}},
		{name: "complete with extras", columns: []string{"x", "total", "date", "order_id", "y"}, missing: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			row := make([]orderscrape.Value, len(tt.columns))
			for i := range row {
				row[i] = num(float64(i + 1))
			}

			table, err := schema.Normalize(&orderscrape.Table{Columns: tt.columns, Rows: [][]orderscrape.Value{row}})

			if tt.missing == nil {
				require.NoError(t, err)
				assert.Equal(t, 1, table.Len())
				return
			}
			require.Error(t, err)
			assert.Equal(t, orderscrape.ESCHEMA, orderscrape.ErrorCode(err))
			assert.Equal(t, tt.missing, orderscrape.MissingColumns(err))
		})
	}

	t.Run("required column blank in every row is missing", func(t *testing.T) {
		t.Parallel()

		_, err := schema.Normalize(&orderscrape.Table{
			Columns: []string{"order_id", "date", "total"},
			Rows:    [][]orderscrape.Value{{num(1), date("2024-06-01"), nul()}},
		})

		assert.Equal(t, []string{"total"}, orderscrape.MissingColumns(err))
	})
}

func TestSchema_Normalize_OptionalBackfill(t *testing.T) {
	t.Parallel()

	schema := orderscrape.DefaultSchema()

	table, err := schema.Normalize(&orderscrape.Table{
		Columns: []string{"order_id", "status", "date", "total"},
		Rows: [][]orderscrape.Value{
			{num(1), txt("Open"), date("2024-06-01"), num(5)},
			{num(2), txt("Closed"), date("2024-06-02"), num(6)},
		},
	})
	require.NoError(t, err)

	for _, c := range orderscrape.DefaultOptionalColumns {
		require.GreaterOrEqual(t, table.ColumnIndex(c), 0, c)
	}
	for i := 0; i < table.Len(); i++ {
		for _, c := range []string{"customer", "po", "workstation", "due"} {
			v, ok := table.Value(i, c)
			require.True(t, ok)
			assert.Equal(t, orderscrape.KindText, v.Kind())
			assert.Equal(t, "", v.AsText())
		}
	}
	status, _ := table.Value(1, "status")
	assert.Equal(t, "Closed", status.AsText())
	assert.Equal(t, 1, table.ColumnIndex("status"), "present optional column keeps its position")
}

func TestSchema_Normalize_Idempotent(t *testing.T) {
	t.Parallel()

	schema := orderscrape.DefaultSchema()
	inputs := []*orderscrape.Table{
		scenarioTable(),
		{
			Columns: []string{" order_id", "customer", "blank", "date\n", "total", "notes"},
			Rows: [][]orderscrape.Value{
				{txt(" 7 "), nul(), nul(), date("2024-06-01"), num(1.5), txt(" hi ")},
				{num(3), nul(), txt(""), date("2024-06-05"), num(2), txt("")},
			},
		},
	}

	for _, in := range inputs {
		once, err := schema.Normalize(in)
		require.NoError(t, err)

		twice, err := schema.Normalize(once.Table())
		require.NoError(t, err)

		assert.Equal(t, once.Columns(), twice.Columns())
		if diff := cmp.Diff(once.Rows(), twice.Rows(), valueComparer); diff != "" {
			t.Errorf("normalize is not idempotent (-once +twice):\n%s", diff)
		}
	}
}

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, orderscrape.DefaultSchema().Validate())
	assert.Error(t, (&orderscrape.Schema{}).Validate())
	assert.Error(t, (&orderscrape.Schema{Required: []string{"a"}, Optional: []string{"a"}}).Validate())
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Order #", orderscrape.NormalizeHeader("  Order #\n"))
	assert.Equal(t, "Due Date", orderscrape.NormalizeHeader("Due\nDate"))
	assert.Equal(t, "Due Date", orderscrape.NormalizeHeader("Due\r\nDate"))
}

func TestDedupeColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		columns []string
		want    []string
		fold    []string
	}{
		{name: "unique", columns: []string{"a", "b"}, want: []string{"a", "b"}, fold: []string{"a", "b"}},
		{name: "repeated", columns: []string{"a", "a", "a"}, want: []string{"a", "a.1", "a.2"}, fold: []string{"a", "a.1", "a.2"}},
		{name: "suffix already taken", columns: []string{"a", "a.1", "a"}, want: []string{"a", "a.1", "a.2"}, fold: []string{"a", "a.1", "a.2"}},
		{name: "differs by case", columns: []string{"Status", "status"}, want: []string{"Status", "status"}, fold: []string{"Status", "status.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, orderscrape.DedupeColumns(tt.columns))
			assert.Equal(t, tt.fold, orderscrape.DedupeColumnsFold(tt.columns))
		})
	}
}
