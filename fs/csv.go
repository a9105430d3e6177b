package fs

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/fwojciec/orderscrape"
)

// Ensure CSVWriter implements orderscrape.TableWriter at compile time.
var _ orderscrape.TableWriter = (*CSVWriter)(nil)

// CSVWriter writes an orders table as comma-separated values: one header
// line followed by one line per row. Null cells are written empty.
type CSVWriter struct{}

// WriteTable writes t to path, replacing any existing file.
func (w *CSVWriter) WriteTable(ctx context.Context, path string, t *orderscrape.OrderTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return writeFile(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(t.Columns()); err != nil {
			return err
		}

		record := make([]string, len(t.Columns()))
		for _, row := range t.Rows() {
			for j, v := range row {
				record[j] = v.String()
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}
