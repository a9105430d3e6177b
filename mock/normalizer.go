package mock

import "github.com/fwojciec/orderscrape"

var _ orderscrape.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of orderscrape.Normalizer.
type Normalizer struct {
	NormalizeFn func(t *orderscrape.Table) (*orderscrape.OrderTable, error)
}

func (n *Normalizer) Normalize(t *orderscrape.Table) (*orderscrape.OrderTable, error) {
	return n.NormalizeFn(t)
}
