package tm1637

import "unicode"

// Segment bits of one digit.
// Bit order: DP.G.F.E.D.C.B.A (MSB to LSB: bit7=DP, bit6=G, ..., bit0=A)
//
//	   A
//	  ---
//	F |   | B
//	  -G-
//	E |   | C
//	  ---
//	   D
const (
	SegA  byte = 1 << iota // top
	SegB                   // top right
	SegC                   // bottom right
	SegD                   // bottom
	SegE                   // bottom left
	SegF                   // top left
	SegG                   // middle
	SegDP                  // decimal point
)

// Minus is the pattern for '-'.
const Minus = SegG

// hexDigits holds the patterns of 0-9 and A-F, indexed by value.
var hexDigits = [16]byte{
	0x3f, 0x06, 0x5b, 0x4f, // 0 1 2 3
	0x66, 0x6d, 0x7d, 0x07, // 4 5 6 7
	0x7f, 0x6f, 0x77, 0x7c, // 8 9 A b
	0x39, 0x5e, 0x79, 0x71, // C d E F
}

// segmentMap maps lowercase characters to their segment pattern. It is never
// modified after package initialization.
var segmentMap = map[rune]byte{
	'0': hexDigits[0x0], '1': hexDigits[0x1], '2': hexDigits[0x2], '3': hexDigits[0x3],
	'4': hexDigits[0x4], '5': hexDigits[0x5], '6': hexDigits[0x6], '7': hexDigits[0x7],
	'8': hexDigits[0x8], '9': hexDigits[0x9],
	'a': hexDigits[0xa], 'b': hexDigits[0xb], 'c': hexDigits[0xc], 'd': hexDigits[0xd],
	'e': hexDigits[0xe], 'f': hexDigits[0xf],
	'g': 0x3d,
	'h': 0x76,
	'i': 0x30,
	'j': 0x0e,
	'l': 0x38,
	'n': 0x54,
	'o': 0x3f, // Same as '0'
	'p': 0x73,
	'q': 0x67,
	'r': 0x50,
	's': 0x6d, // Same as '5'
	't': 0x31,
	'u': 0x3e,
	'v': 0x1c,
	'y': 0x66, // Same as '4'
	' ': 0x00, // Blank
	'-': Minus,
}

// Encode returns the segment pattern of c. Letters are case-insensitive.
func Encode(c rune) (byte, bool) {
	b, ok := segmentMap[unicode.ToLower(c)]
	return b, ok
}

// UpsideDown returns the pattern as seen on a display mounted upside down:
// A, B and C swap with D, E and F. G and DP are kept.
func UpsideDown(b byte) byte {
	return b&(SegDP|SegG) | (b&0x07)<<3 | (b&0x38)>>3
}
