// Package scrape runs one orders scrape end to end: sign in, fetch the
// orders page, select and normalize the orders table, and export it.
package scrape

import (
	"context"

	"github.com/fwojciec/orderscrape"
)

// Scraper wires the stages of a scrape together.
type Scraper struct {
	Gateway    orderscrape.Gateway
	Selector   orderscrape.Selector
	Normalizer orderscrape.Normalizer
	Exporter   *orderscrape.Exporter
}

// Result holds everything a scrape produced, including the stages that
// completed before a failure.
type Result struct {
	Document *orderscrape.RawDocument
	Table    *orderscrape.OrderTable
	Export   *orderscrape.ExportResult
}

// ProgressEvent reports progress during a scrape.
type ProgressEvent struct {
	Type ProgressType

	// Rows and Columns are set for ProgressParsed.
	Rows    int
	Columns int

	// Artifact is set for ProgressSaved and ProgressFailed.
	Artifact *orderscrape.Artifact
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressLogin ProgressType = iota
	ProgressFetch
	ProgressParse
	ProgressParsed
	ProgressSaved
	ProgressFailed
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// Run performs one scrape and writes the table to every target. Failures
// before export stop the run. Export failures do not: every target is
// attempted, and the joined export errors are returned alongside the
// result.
func (s *Scraper) Run(ctx context.Context, targets []orderscrape.Target, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	result := &Result{}

	progress(ProgressEvent{Type: ProgressLogin})
	if err := s.Gateway.Login(ctx); err != nil {
		return result, err
	}

	progress(ProgressEvent{Type: ProgressFetch})
	doc, err := s.Gateway.FetchOrders(ctx)
	if err != nil {
		return result, err
	}
	result.Document = doc

	table, err := s.Parse(doc.HTML, progress)
	if err != nil {
		return result, err
	}
	result.Table = table

	result.Export = s.Exporter.Export(ctx, table, targets)
	for i := range result.Export.Artifacts {
		a := &result.Export.Artifacts[i]
		if a.Err != nil {
			progress(ProgressEvent{Type: ProgressFailed, Artifact: a})
		} else {
			progress(ProgressEvent{Type: ProgressSaved, Artifact: a})
		}
	}
	return result, result.Export.Err()
}

// Parse selects and normalizes the orders table from an orders page.
func (s *Scraper) Parse(html string, progress ProgressFunc) (*orderscrape.OrderTable, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	progress(ProgressEvent{Type: ProgressParse})
	candidate, err := s.Selector.Select(html)
	if err != nil {
		return nil, err
	}

	table, err := s.Normalizer.Normalize(candidate)
	if err != nil {
		return nil, err
	}

	progress(ProgressEvent{Type: ProgressParsed, Rows: table.Len(), Columns: len(table.Columns())})
	return table, nil
}
