package orderscrape

import "context"

// Gateway signs in to the portal and retrieves the orders page.
// Implementations hold the authenticated session; callers never see it.
type Gateway interface {
	// Login authenticates the session.
	// Returns EUNAUTHORIZED if the portal rejects the credentials.
	Login(ctx context.Context) error

	// FetchOrders retrieves the orders page with the authenticated session.
	// Returns EUNAUTHORIZED if the page is served as a sign-in form.
	FetchOrders(ctx context.Context) (*RawDocument, error)
}

// LoginDetector recognizes sign-in pages.
type LoginDetector interface {
	IsLoginPage(html string) bool
}

// Selector finds the orders table in an HTML document.
type Selector interface {
	// Select returns the table most likely to hold order data.
	// Returns ENOTFOUND if the document has no tables.
	Select(html string) (*Table, error)
}
