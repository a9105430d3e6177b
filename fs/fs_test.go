package fs_test

import (
	"testing"

	"github.com/fwojciec/orderscrape"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) orderscrape.Value {
	t.Helper()

	v := orderscrape.ParseValue(s)
	require.Equal(t, orderscrape.KindDate, v.Kind())
	return v
}

// ordersTable returns the canonical scenario table with one optional
// column, sorted the way the exporter hands it to writers.
func ordersTable(t *testing.T) *orderscrape.OrderTable {
	t.Helper()

	schema := &orderscrape.Schema{
		Required: []string{"order_id", "date", "total"},
		Optional: []string{"customer"},
	}
	table, err := schema.Normalize(&orderscrape.Table{
		Columns: []string{"order_id", "date", "total", "status"},
		Rows: [][]orderscrape.Value{
			{orderscrape.Number(2), date(t, "2024-06-02"), orderscrape.Number(20), orderscrape.Text("Open, urgent")},
			{orderscrape.Number(1), date(t, "2024-06-01 13:45:00"), orderscrape.Number(10.5), orderscrape.Null()},
			{orderscrape.Number(1), date(t, "2024-06-01"), orderscrape.Number(10), orderscrape.Text(`say "hi"`)},
		},
	})
	require.NoError(t, err)
	return table.SortBy(orderscrape.DefaultSortColumns...)
}
