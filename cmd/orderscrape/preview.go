package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/orderscrape"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
)

// previewCellWidth is the display width long cells are clipped to.
const previewCellWidth = 32

// WritePreview renders the first n rows of t as a text table.
func WritePreview(w io.Writer, t *orderscrape.OrderTable, n int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	header := table.Row{}
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	shown := min(n, t.Len())
	for i := 0; i < shown; i++ {
		row := table.Row{}
		for _, v := range t.Row(i) {
			row = append(row, runewidth.Truncate(v.String(), previewCellWidth, "…"))
		}
		tw.AppendRow(row)
	}

	tw.SetStyle(table.StyleRounded)
	tw.Render()

	if shown < t.Len() {
		fmt.Fprintf(w, "(%d of %d rows)\n", shown, t.Len())
	}
}
