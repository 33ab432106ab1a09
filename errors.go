package tm1637

import "errors"

var (
	// ErrDigits is returned when the digit count is not positive.
	ErrDigits = errors.New("tm1637: digit count must be positive")
	// ErrDigitOrder is returned when the digit order is not a permutation of
	// all digit positions.
	ErrDigitOrder = errors.New("tm1637: digit order must list every digit position once")
	// ErrBrightness is returned for a brightness level outside 0-7.
	ErrBrightness = errors.New("tm1637: brightness must be in the range 0-7")
	// ErrRotation is returned for a rotation other than 0 or 180.
	ErrRotation = errors.New("tm1637: rotation must be 0 or 180")
	// ErrEncoding is returned when a character has no segment pattern.
	ErrEncoding = errors.New("tm1637: no segment pattern")
	// ErrUnsupportedValue is returned by Print for a Value that was not built
	// with Text, Int or Float.
	ErrUnsupportedValue = errors.New("tm1637: unsupported display value type")
	// ErrLength is returned when a per-digit slice does not match the digit
	// count.
	ErrLength = errors.New("tm1637: length does not match digit count")
	// ErrClosed is returned by any operation after Close.
	ErrClosed = errors.New("tm1637: device is closed")
)
