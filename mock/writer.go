package mock

import (
	"context"

	"github.com/fwojciec/orderscrape"
)

var _ orderscrape.TableWriter = (*TableWriter)(nil)

// TableWriter is a mock implementation of orderscrape.TableWriter.
type TableWriter struct {
	WriteTableFn func(ctx context.Context, path string, t *orderscrape.OrderTable) error
}

func (w *TableWriter) WriteTable(ctx context.Context, path string, t *orderscrape.OrderTable) error {
	return w.WriteTableFn(ctx, path, t)
}
