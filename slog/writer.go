package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/orderscrape"
)

// Ensure LoggingTableWriter implements orderscrape.TableWriter.
var _ orderscrape.TableWriter = (*LoggingTableWriter)(nil)

// LoggingTableWriter wraps a TableWriter with debug logging.
type LoggingTableWriter struct {
	next   orderscrape.TableWriter
	format orderscrape.Format
	logger *slog.Logger
}

// NewLoggingTableWriter creates a new LoggingTableWriter for format.
func NewLoggingTableWriter(next orderscrape.TableWriter, format orderscrape.Format, logger *slog.Logger) *LoggingTableWriter {
	return &LoggingTableWriter{next: next, format: format, logger: logger}
}

// WriteTable delegates to the wrapped writer and logs the operation.
func (w *LoggingTableWriter) WriteTable(ctx context.Context, path string, t *orderscrape.OrderTable) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write table",
			"format", string(w.format),
			"path", path,
			"rows", t.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteTable(ctx, path, t)
}
