package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/orderscrape"
)

// Ensure LoggingSelector implements orderscrape.Selector.
var _ orderscrape.Selector = (*LoggingSelector)(nil)

// LoggingSelector wraps a Selector with debug logging.
type LoggingSelector struct {
	next   orderscrape.Selector
	logger *slog.Logger
}

// NewLoggingSelector creates a new LoggingSelector.
func NewLoggingSelector(next orderscrape.Selector, logger *slog.Logger) *LoggingSelector {
	return &LoggingSelector{next: next, logger: logger}
}

// Select delegates to the wrapped selector and logs the chosen table's shape.
func (s *LoggingSelector) Select(html string) (t *orderscrape.Table, err error) {
	defer func(begin time.Time) {
		var columns []string
		var rows int
		if t != nil {
			columns, rows = t.Columns, len(t.Rows)
		}
		s.logger.Info("select table",
			"columns", columns,
			"rows", rows,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Select(html)
}

// Ensure LoggingNormalizer implements orderscrape.Normalizer.
var _ orderscrape.Normalizer = (*LoggingNormalizer)(nil)

// LoggingNormalizer wraps a Normalizer with debug logging.
type LoggingNormalizer struct {
	next   orderscrape.Normalizer
	logger *slog.Logger
}

// NewLoggingNormalizer creates a new LoggingNormalizer.
func NewLoggingNormalizer(next orderscrape.Normalizer, logger *slog.Logger) *LoggingNormalizer {
	return &LoggingNormalizer{next: next, logger: logger}
}

// Normalize delegates to the wrapped normalizer and logs the result shape
// along with any missing required columns.
func (n *LoggingNormalizer) Normalize(in *orderscrape.Table) (out *orderscrape.OrderTable, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if out != nil {
			attrs = append(attrs, "columns", out.Columns(), "rows", out.Len())
		}
		if missing := orderscrape.MissingColumns(err); len(missing) > 0 {
			attrs = append(attrs, "missing", missing)
		}
		n.logger.Info("normalize table", attrs...)
	}(time.Now())
	return n.next.Normalize(in)
}
