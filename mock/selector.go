package mock

import "github.com/fwojciec/orderscrape"

var _ orderscrape.Selector = (*Selector)(nil)

// Selector is a mock implementation of orderscrape.Selector.
type Selector struct {
	SelectFn func(html string) (*orderscrape.Table, error)
}

func (s *Selector) Select(html string) (*orderscrape.Table, error) {
	return s.SelectFn(html)
}

var _ orderscrape.LoginDetector = (*LoginDetector)(nil)

// LoginDetector is a mock implementation of orderscrape.LoginDetector.
type LoginDetector struct {
	IsLoginPageFn func(html string) bool
}

func (d *LoginDetector) IsLoginPage(html string) bool {
	return d.IsLoginPageFn(html)
}
