package goquery

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/orderscrape"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxSpan bounds colspan/rowspan values taken from untrusted markup.
const maxSpan = 1000

var whitespaceRe = regexp.MustCompile(`[\r\n]+|\s{2,}`)

// cellText returns the text content of a cell with line breaks and runs of
// whitespace collapsed to single spaces.
func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(sel.Text(), " "))
}

// rawCell is a cell as found in the markup before span expansion.
type rawCell struct {
	text    string
	header  bool
	colspan int
	rowspan int
}

// rawRow is a table row before span expansion.
type rawRow struct {
	cells []rawCell
	thead bool
}

// ParseTable converts a <table> selection into a candidate table.
// Returns false if the table has no cells.
func ParseTable(table *goquery.Selection) (*orderscrape.Table, bool) {
	rows := collectRows(table)
	grid := expandSpans(rows)
	if len(grid) == 0 {
		return nil, false
	}

	// Header rows: the <thead> rows, or leading rows made only of <th>.
	headerRows := 0
	for i, r := range rows {
		if r.thead || allHeaderCells(r) {
			headerRows = i + 1
			continue
		}
		break
	}

	width := 0
	for _, row := range grid {
		width = max(width, len(row.texts))
	}

	var header []string
	if headerRows > 0 {
		header = grid[headerRows-1].texts
	}
	columns := make([]string, width)
	for j := range columns {
		if j < len(header) && header[j] != "" {
			columns[j] = header[j]
		} else if headerRows > 0 {
			columns[j] = "Unnamed: " + strconv.Itoa(j)
		} else {
			columns[j] = strconv.Itoa(j)
		}
	}

	t := &orderscrape.Table{Columns: orderscrape.DedupeColumns(columns)}
	for _, row := range grid[headerRows:] {
		values := make([]orderscrape.Value, width)
		for j, text := range row.texts {
			values[j] = orderscrape.ParseValue(text)
		}
		t.Rows = append(t.Rows, values)
	}
	return t, true
}

// collectRows walks the direct row children of a table in document order,
// ignoring rows of nested tables.
func collectRows(table *goquery.Selection) []rawRow {
	var rows []rawRow
	addRow := func(tr *goquery.Selection, thead bool) {
		r := rawRow{thead: thead}
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			r.cells = append(r.cells, rawCell{
				text:    cellText(cell),
				header:  isAtom(cell, atom.Th),
				colspan: spanAttr(cell, "colspan"),
				rowspan: spanAttr(cell, "rowspan"),
			})
		})
		if len(r.cells) > 0 {
			rows = append(rows, r)
		}
	}

	table.Children().Each(func(_ int, child *goquery.Selection) {
		switch {
		case isAtom(child, atom.Tr):
			addRow(child, false)
		case isAtom(child, atom.Thead):
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) { addRow(tr, true) })
		case isAtom(child, atom.Tbody), isAtom(child, atom.Tfoot):
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) { addRow(tr, false) })
		}
	})
	return rows
}

// gridRow is a row after span expansion.
type gridRow struct {
	texts []string
}

// expandSpans lays cells out on a grid, copying the text of spanning cells
// into every position they cover.
func expandSpans(rows []rawRow) []gridRow {
	type pending struct {
		text string
		left int
	}
	carry := map[int]pending{}
	grid := make([]gridRow, 0, len(rows))

	for _, r := range rows {
		var texts []string
		col := 0
		place := func(text string) {
			for len(texts) <= col {
				texts = append(texts, "")
			}
			texts[col] = text
			col++
		}
		takeCarry := func() {
			p := carry[col]
			place(p.text)
			if p.left--; p.left == 0 {
				delete(carry, col-1)
			} else {
				carry[col-1] = p
			}
		}
		fillCarry := func() {
			for {
				if _, ok := carry[col]; !ok {
					return
				}
				takeCarry()
			}
		}

		for _, c := range r.cells {
			fillCarry()
			for k := 0; k < c.colspan; k++ {
				if c.rowspan > 1 {
					carry[col] = pending{text: c.text, left: c.rowspan - 1}
				}
				place(c.text)
			}
		}
		// Cells spanning down from earlier rows past the end of this one.
		for _, k := range slices.Sorted(maps.Keys(carry)) {
			if k < col {
				continue
			}
			for col < k {
				place("")
			}
			takeCarry()
		}
		grid = append(grid, gridRow{texts: texts})
	}

	// Rows spanning past the last <tr> add trailing rows.
	for len(carry) > 0 {
		var texts []string
		for col, p := range carry {
			for len(texts) <= col {
				texts = append(texts, "")
			}
			texts[col] = p.text
			if p.left--; p.left == 0 {
				delete(carry, col)
			} else {
				carry[col] = p
			}
		}
		grid = append(grid, gridRow{texts: texts})
	}
	return grid
}

func allHeaderCells(r rawRow) bool {
	for _, c := range r.cells {
		if !c.header {
			return false
		}
	}
	return len(r.cells) > 0
}

func spanAttr(sel *goquery.Selection, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr(name, "1")))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxSpan)
}

func isAtom(sel *goquery.Selection, a atom.Atom) bool {
	if sel.Length() == 0 {
		return false
	}
	n := sel.Get(0)
	return n.Type == html.ElementNode && n.DataAtom == a
}
