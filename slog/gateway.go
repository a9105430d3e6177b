// Package slog provides log/slog decorators for the orderscrape services.
// They are wired only when debug logging is requested.
package slog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/orderscrape"
)

// Ensure LoggingGateway implements orderscrape.Gateway.
var _ orderscrape.Gateway = (*LoggingGateway)(nil)

// LoggingGateway wraps a Gateway with debug logging.
type LoggingGateway struct {
	next   orderscrape.Gateway
	logger *slog.Logger
}

// NewLoggingGateway creates a new LoggingGateway.
func NewLoggingGateway(next orderscrape.Gateway, logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{next: next, logger: logger}
}

// Login delegates to the wrapped gateway and logs the outcome.
func (g *LoggingGateway) Login(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		g.logger.Info("login",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Login(ctx)
}

// FetchOrders delegates to the wrapped gateway and logs the page size and
// fingerprint, so repeated runs against an unchanged page can be spotted.
func (g *LoggingGateway) FetchOrders(ctx context.Context) (doc *orderscrape.RawDocument, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if doc != nil {
			attrs = append(attrs,
				"url", doc.URL,
				"bytes", len(doc.HTML),
				"fingerprint", Fingerprint(doc.HTML),
			)
		}
		g.logger.Info("fetch orders", attrs...)
	}(time.Now())
	return g.next.FetchOrders(ctx)
}

// Fingerprint returns the xxHash of html as 16 hex digits.
func Fingerprint(html string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(html))
}
