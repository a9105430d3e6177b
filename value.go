package orderscrape

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant of Value is populated.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindDate
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Date layouts used when rendering Date values as text.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Value is a single table cell: null, text, number or date.
// The zero value is Null.
type Value struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric Value. Non-finite numbers become Null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Date returns a date Value normalized to UTC.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t.UTC()} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsBlank reports whether v is Null or text made only of whitespace.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return strings.TrimSpace(v.text) == ""
	}
	return false
}

// AsText returns the text of a Text value and "" otherwise.
func (v Value) AsText() string {
	if v.kind != KindText {
		return ""
	}
	return v.text
}

// AsNumber returns the number of a Number value.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsDate returns the time of a Date value.
func (v Value) AsDate() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// IsInteger reports whether v is a Number without a fractional part.
func (v Value) IsInteger() bool {
	return v.kind == KindNumber && v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53
}

// HasClock reports whether a Date value carries a time of day.
func (v Value) HasClock() bool {
	if v.kind != KindDate {
		return false
	}
	h, m, s := v.date.Clock()
	return h != 0 || m != 0 || s != 0 || v.date.Nanosecond() != 0
}

// String renders v the way it appears in text outputs. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		if v.HasClock() {
			return v.date.Format(DateTimeLayout)
		}
		return v.date.Format(DateLayout)
	}
	return ""
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	}
	return true
}

// kindRank orders kinds for mixed-kind comparisons. Null sorts last.
func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindDate:
		return 1
	case KindText:
		return 2
	}
	return 3
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, with or
// after o. Values of different kinds order by kind: numbers, dates, text,
// then null.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		if kindRank(v.kind) < kindRank(o.kind) {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindText:
		return strings.Compare(v.text, o.text)
	case KindNumber:
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		}
	case KindDate:
		return v.date.Compare(o.date)
	}
	return 0
}

// MarshalJSON encodes numbers as JSON numbers, dates and text as strings
// and Null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindText, KindDate:
		return json.Marshal(v.String())
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes null, numbers and strings. Strings always decode
// as Text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Number(f)
	return nil
}

var (
	numberRe    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	thousandsRe = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// dateLayouts are tried in order by ParseValue.
var dateLayouts = []string{
	DateLayout,
	DateTimeLayout,
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseValue infers the kind of a raw cell string. Blank input is Null,
// numeric input (with optional thousands separators) is a Number, input
// matching a known date layout is a Date, and anything else is Text with
// the original string kept untouched.
func ParseValue(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return Null()
	}

	n := t
	if thousandsRe.MatchString(n) {
		n = strings.ReplaceAll(n, ",", "")
	}
	if numberRe.MatchString(n) {
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			if v := Number(f); !v.IsNull() {
				return v
			}
		}
	}

	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, t); err == nil {
			return Date(d)
		}
	}

	return Text(s)
}
