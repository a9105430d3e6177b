package mock

import (
	"context"

	"github.com/fwojciec/orderscrape"
)

var _ orderscrape.Gateway = (*Gateway)(nil)

// Gateway is a mock implementation of orderscrape.Gateway.
type Gateway struct {
	LoginFn       func(ctx context.Context) error
	FetchOrdersFn func(ctx context.Context) (*orderscrape.RawDocument, error)
}

func (g *Gateway) Login(ctx context.Context) error {
	return g.LoginFn(ctx)
}

func (g *Gateway) FetchOrders(ctx context.Context) (*orderscrape.RawDocument, error) {
	return g.FetchOrdersFn(ctx)
}
