package tm1637

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind int

const (
	kindNone valueKind = iota
	kindText
	kindInt
	kindFloat
)

// Value is something Print can show: text, an integer or a float with a
// number of decimal places. Build one with Text, Int or Float. The zero Value
// is not printable.
type Value struct {
	kind     valueKind
	text     string
	i        int64
	f        float64
	decimals int
}

// Text returns a Value rendering s as is.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// Int returns a Value rendering n in decimal.
func Int(n int64) Value {
	return Value{kind: kindInt, i: n}
}

// Float returns a Value rendering f with the given number of decimal places.
// With decimals <= 0, f is truncated toward zero and shown as an integer.
func Float(f float64, decimals int) Value {
	return Value{kind: kindFloat, f: f, decimals: decimals}
}

func (v Value) String() string {
	switch v.kind {
	case kindText:
		return strconv.Quote(v.text)
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return fmt.Sprintf("%g (%d decimals)", v.f, v.decimals)
	default:
		return "<none>"
	}
}

// format returns the text to render for v on a display of the given number
// of digits.
func (v Value) format(digits int) (string, error) {
	switch v.kind {
	case kindText:
		return v.text, nil
	case kindInt:
		return strconv.FormatInt(v.i, 10), nil
	case kindFloat:
		return formatFloat(v.f, v.decimals, digits)
	default:
		return "", ErrUnsupportedValue
	}
}

// hex returns v with integers replaced by their lowercase hexadecimal text.
func (v Value) hex() Value {
	if v.kind != kindInt {
		return v
	}
	return Text(strconv.FormatInt(v.i, 16))
}

func formatFloat(f float64, decimals, digits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w for %v", ErrEncoding, f)
	}
	if decimals <= 0 {
		s := strconv.FormatFloat(math.Trunc(f), 'f', 0, 64)
		if s == "-0" {
			s = "0"
		}
		return s, nil
	}
	s := strconv.FormatFloat(f, 'f', 6, 64)
	dot := strings.IndexByte(s, '.')
	if end := dot + decimals + 1; end < len(s) {
		s = s[:end]
	}
	// One extra character for the dot, which takes no digit.
	if len(s) > digits+1 {
		s = s[:digits+1]
	}
	return s, nil
}
