package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/orderscrape"
)

// DefaultSignInForm matches the portal's sign-in form.
const DefaultSignInForm = `form#signin[name="signin"]`

var _ orderscrape.LoginDetector = (*LoginDetector)(nil)

// LoginDetector recognizes pages that still show the sign-in form.
type LoginDetector struct {
	Form string
}

// NewLoginDetector creates a LoginDetector for the default sign-in form.
func NewLoginDetector() *LoginDetector {
	return &LoginDetector{Form: DefaultSignInForm}
}

// IsLoginPage reports whether html contains the sign-in form.
// Unparseable HTML is not treated as a sign-in page.
func (d *LoginDetector) IsLoginPage(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(d.Form).Length() > 0
}
