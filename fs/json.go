package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/fwojciec/orderscrape"
)

// Ensure JSONWriter implements orderscrape.TableWriter at compile time.
var _ orderscrape.TableWriter = (*JSONWriter)(nil)

// JSONWriter writes an orders table as a JSON array of objects. Object keys
// follow column order.
type JSONWriter struct {
	// Indent is the per-level indentation. Empty writes compact JSON.
	Indent string
}

// NewJSONWriter creates a JSONWriter producing indented output.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: "  "}
}

// WriteTable writes t to path, replacing any existing file.
func (w *JSONWriter) WriteTable(ctx context.Context, path string, t *orderscrape.OrderTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := MarshalRecords(t)
	if err != nil {
		return err
	}
	if w.Indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", w.Indent); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return writeFile(path, func(out io.Writer) error {
		if _, err := out.Write(data); err != nil {
			return err
		}
		_, err := io.WriteString(out, "\n")
		return err
	})
}

// MarshalRecords encodes t as a compact JSON array of objects.
// encoding/json sorts map keys, so objects are assembled field by field to
// keep column order.
func MarshalRecords(t *orderscrape.OrderTable) ([]byte, error) {
	columns := t.Columns()
	keys := make([][]byte, len(columns))
	for j, c := range columns {
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		keys[j] = k
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, v := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[j])
			buf.WriteByte(':')
			b, err := v.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
