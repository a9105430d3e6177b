// Package excelize writes orders tables as spreadsheets using
// github.com/xuri/excelize/v2.
package excelize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/orderscrape"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet layout.
const (
	SheetName      = "Sheet1"
	DateFormat     = "yyyy-mm-dd"
	DateTimeFormat = "yyyy-mm-dd hh:mm:ss"
)

// Ensure Writer implements orderscrape.TableWriter at compile time.
var _ orderscrape.TableWriter = (*Writer)(nil)

// Writer writes an orders table to a single-sheet workbook. Numbers are
// stored as numeric cells and dates as date cells; null cells are left
// empty.
type Writer struct{}

// NewWriter creates a spreadsheet Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTable writes t to path, replacing any existing workbook.
func (w *Writer) WriteTable(ctx context.Context, path string, t *orderscrape.OrderTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(DateFormat)})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}
	dateTimeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(DateTimeFormat)})
	if err != nil {
		return fmt.Errorf("creating date time style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	columns := t.Columns()
	header := make([]any, len(columns))
	for j, c := range columns {
		header[j] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows() {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v, dateStyle, dateTimeStyle)
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(addr, cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

// cellValue maps a Value to a stream writer cell. Null maps to nil, which
// the stream writer skips.
func cellValue(v orderscrape.Value, dateStyle, dateTimeStyle int) any {
	switch v.Kind() {
	case orderscrape.KindText:
		return v.AsText()
	case orderscrape.KindNumber:
		n, _ := v.AsNumber()
		return n
	case orderscrape.KindDate:
		d, _ := v.AsDate()
		style := dateStyle
		if v.HasClock() {
			style = dateTimeStyle
		}
		return excelize.Cell{StyleID: style, Value: d}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
