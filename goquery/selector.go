// Package goquery implements HTML table selection and sign-in page
// detection with github.com/PuerkitoBio/goquery.
package goquery

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/orderscrape"
)

// DefaultFastPaths are the selectors tried, in order, before scoring.
var DefaultFastPaths = []string{
	"table#orders",
	"table.orders",
	`table[class="table table-striped"]`,
}

// DefaultVocabulary holds the header terms that mark an orders table.
var DefaultVocabulary = []string{
	"Order", "Order #", "Order ID", "PO", "Customer", "Workstation", "Status", "Date", "Due",
}

// Ensure Selector implements orderscrape.Selector at compile time.
var _ orderscrape.Selector = (*Selector)(nil)

// Selector picks the orders table out of an HTML document.
type Selector struct {
	// FastPaths are CSS selectors for tables with known markup.
	// The first one matching a parseable table wins without scoring.
	FastPaths []string

	// Vocabulary terms are matched case-insensitively against header cells.
	Vocabulary []string
}

// NewSelector creates a Selector with the default fast paths and vocabulary.
func NewSelector() *Selector {
	return &Selector{
		FastPaths:  slices.Clone(DefaultFastPaths),
		Vocabulary: slices.Clone(DefaultVocabulary),
	}
}

// Select returns the table most likely to hold order data.
func (s *Selector) Select(html string) (*orderscrape.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, orderscrape.Errorf(orderscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, selector := range s.FastPaths {
		if t, ok := ParseTable(doc.Find(selector).First()); ok {
			return t, nil
		}
	}

	var tables []*orderscrape.Table
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		if t, ok := ParseTable(sel); ok {
			tables = append(tables, t)
		}
	})

	ranked := Rank(tables, s.Vocabulary)
	if len(ranked) == 0 {
		return nil, orderscrape.Errorf(orderscrape.ENOTFOUND, "no HTML tables found on orders page")
	}
	return ranked[0].Table, nil
}

// Candidate is a parsed table with its relevance score.
type Candidate struct {
	// Index is the table's position in document order.
	Index int

	Table *orderscrape.Table
	Score int

	// Eligible is false for degenerate tables: fewer than two columns or
	// no data rows.
	Eligible bool
}

// Rank scores tables against the vocabulary and orders them best first.
// Eligible candidates come first by descending score, ties in document
// order; ineligible candidates follow in document order. The first element
// is therefore the selection, including the fall back to the first table
// when no candidate is eligible.
func Rank(tables []*orderscrape.Table, vocabulary []string) []Candidate {
	candidates := make([]Candidate, len(tables))
	for i, t := range tables {
		candidates[i] = Candidate{
			Index:    i,
			Table:    t,
			Score:    Score(t.Columns, vocabulary),
			Eligible: len(t.Columns) > 1 && len(t.Rows) > 0,
		}
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		switch {
		case a.Eligible != b.Eligible:
			if a.Eligible {
				return -1
			}
			return 1
		case !a.Eligible:
			return a.Index - b.Index
		}
		return b.Score - a.Score
	})
	return candidates
}

// Score counts the header labels containing at least one vocabulary term,
// compared case-insensitively.
func Score(columns []string, vocabulary []string) int {
	terms := make([]string, len(vocabulary))
	for i, v := range vocabulary {
		terms[i] = strings.ToLower(v)
	}

	score := 0
	for _, c := range columns {
		label := strings.ToLower(c)
		if slices.ContainsFunc(terms, func(term string) bool { return strings.Contains(label, term) }) {
			score++
		}
	}
	return score
}
