package tm1637

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	// MaxBrightness is the highest brightness level.
	MaxBrightness = 7
	// DefaultDigits is the digit count of the common 4-digit modules.
	DefaultDigits = 4
)

// Rotation is the mounting angle of the display in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate180 Rotation = 180
)

// Brightness is the display control state: a level from 0 to 7 and whether
// the display is lit at all.
type Brightness struct {
	Level   int
	Enabled bool
}

// nibble packs b the way the display control command expects it.
func (b Brightness) nibble() byte {
	n := byte(b.Level) & 0x07
	if b.Enabled {
		n |= 0x08
	}
	return n
}

// Opts holds the configuration of a display.
type Opts struct {
	// Digits is the number of digits of the module, usually 4 or 6.
	Digits int
	// DigitOrder maps each chip address, in sending order, to the logical
	// left-to-right position shown there. Nil means 0, 1, ..., Digits-1. The
	// common 6-digit modules are wired as 2, 1, 0, 5, 4, 3.
	DigitOrder []int
	// AutoWrite refreshes the display after every change. When false, Show
	// must be called.
	AutoWrite bool
	// BitDelay is the minimum wait after each line transition. Zero means
	// DefaultBitDelay.
	BitDelay time.Duration
	// Brightness is the initial brightness. Unlike the other fields, the zero
	// value is not replaced by a default: it starts the display off. Start
	// from DefaultOpts to get a lit display.
	Brightness Brightness
	// Rotation is the initial rotation.
	Rotation Rotation
	// Delay implements the bit delay. Nil means time.Sleep.
	Delay DelayFunc
}

// DefaultOpts is the configuration used when New is given nil options.
var DefaultOpts = Opts{
	Digits:     DefaultDigits,
	AutoWrite:  true,
	BitDelay:   DefaultBitDelay,
	Brightness: Brightness{Level: MaxBrightness, Enabled: true},
	Rotation:   Rotate0,
}

// Dev is a TM1637 driven 7-segment display.
//
// Dev is not safe for concurrent use.
type Dev struct {
	bus bus

	digits     []byte
	order      []int
	brightness Brightness
	rotation   Rotation
	autoWrite  bool

	release func() error
	closed  bool
}

// New returns a display driven through the clk and dio lines. Both lines are
// set as outputs, high. Nothing is sent to the chip until the first refresh.
//
// The Dev owns both pins from now on; Close halts them.
func New(clk, dio Pin, opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Digits <= 0 {
		return nil, ErrDigits
	}
	order, err := checkOrder(o.DigitOrder, o.Digits)
	if err != nil {
		return nil, err
	}
	brightness, err := checkBrightness(o.Brightness)
	if err != nil {
		return nil, err
	}
	if err := checkRotation(o.Rotation); err != nil {
		return nil, err
	}
	if o.BitDelay <= 0 {
		o.BitDelay = DefaultBitDelay
	}
	if o.Delay == nil {
		o.Delay = time.Sleep
	}

	if err := clk.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("tm1637: failed to set up clock line: %w", err)
	}
	if err := dio.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("tm1637: failed to set up data line: %w", err)
	}

	return &Dev{
		bus:        bus{clk: clk, dio: dio, delay: o.Delay, bit: o.BitDelay},
		digits:     make([]byte, o.Digits),
		order:      order,
		brightness: brightness,
		rotation:   o.Rotation,
		autoWrite:  o.AutoWrite,
	}, nil
}

func checkOrder(order []int, digits int) ([]int, error) {
	if order == nil {
		order = make([]int, digits)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}
	if len(order) != digits {
		return nil, fmt.Errorf("%w: got %d positions for %d digits", ErrDigitOrder, len(order), digits)
	}
	seen := make([]bool, digits)
	for _, k := range order {
		if k < 0 || k >= digits || seen[k] {
			return nil, fmt.Errorf("%w: %v", ErrDigitOrder, order)
		}
		seen[k] = true
	}
	return append([]int(nil), order...), nil
}

func checkBrightness(b Brightness) (Brightness, error) {
	if b.Level < 0 || b.Level > MaxBrightness {
		return Brightness{}, fmt.Errorf("%w: got %d", ErrBrightness, b.Level)
	}
	if !b.Enabled {
		// Turning the display off doesn't keep the level.
		return Brightness{}, nil
	}
	return b, nil
}

func checkRotation(r Rotation) error {
	if r != Rotate0 && r != Rotate180 {
		return fmt.Errorf("%w: got %d", ErrRotation, r)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("tm1637{%d digits}", len(d.digits))
}

// Digits returns the number of digits.
func (d *Dev) Digits() int {
	return len(d.digits)
}

// DigitOrder returns the configured digit order, not taking rotation into
// account.
func (d *Dev) DigitOrder() []int {
	return append([]int(nil), d.order...)
}

// Segments returns a copy of the segment buffer, left to right.
func (d *Dev) Segments() []byte {
	return append([]byte(nil), d.digits...)
}

// SetSegments sends segs, one pattern per logical digit, straight to the
// display, starting with logical digit pos. The segment buffer is left
// untouched.
func (d *Dev) SetSegments(segs []byte, pos int) error {
	if d.closed {
		return ErrClosed
	}
	if len(segs) != len(d.digits) {
		return fmt.Errorf("%w: got %d segments for %d digits", ErrLength, len(segs), len(d.digits))
	}
	return d.bus.transfer(d.frame(segs, pos), d.brightness.nibble())
}

// frame returns the digit bytes in chip address order.
func (d *Dev) frame(segs []byte, pos int) []byte {
	n := len(d.order)
	order := d.order
	if d.rotation == Rotate180 {
		order = make([]int, n)
		for i, k := range d.order {
			order[n-1-i] = k
		}
	}
	pos %= n
	if pos < 0 {
		pos += n
	}
	out := make([]byte, n)
	for offset := range out {
		b := segs[order[(pos+offset)%n]]
		if d.rotation == Rotate180 {
			b = UpsideDown(b)
		}
		out[offset] = b
	}
	return out
}

// Show sends the segment buffer to the display.
func (d *Dev) Show() error {
	return d.SetSegments(d.digits, 0)
}

func (d *Dev) changed() error {
	if d.autoWrite {
		return d.Show()
	}
	return nil
}

// Clear blanks the segment buffer and the display. It always writes, even
// without auto write.
func (d *Dev) Clear() error {
	if d.closed {
		return ErrClosed
	}
	clear(d.digits)
	return d.Show()
}

// Print shows v right-justified. A '.' lights the decimal point of the
// character before it and takes no digit; characters that don't fit are
// dropped from the left.
//
// The segment buffer is only changed when the whole value can be rendered.
func (d *Dev) Print(v Value) error {
	if d.closed {
		return ErrClosed
	}
	s, err := v.format(len(d.digits))
	if err != nil {
		return err
	}
	buf, err := d.render(s)
	if err != nil {
		return err
	}
	copy(d.digits, buf)
	return d.changed()
}

// PrintHex shows integers in lowercase hexadecimal; other values are printed
// as with Print.
func (d *Dev) PrintHex(v Value) error {
	return d.Print(v.hex())
}

// render encodes text into a new buffer, filling it from the right.
func (d *Dev) render(text string) ([]byte, error) {
	buf := make([]byte, len(d.digits))
	runes := []rune(text)
	k := len(buf) - 1
	dot := false
	for i := len(runes) - 1; i >= 0 && k >= 0; i-- {
		c := runes[i]
		if c == '.' {
			dot = true
			continue
		}
		seg, ok := Encode(c)
		if !ok {
			return nil, fmt.Errorf("%w for %q", ErrEncoding, c)
		}
		if dot {
			seg |= SegDP
			dot = false
		}
		buf[k] = seg
		k--
	}
	return buf, nil
}

// ShowDots sets or clears the decimal point of each digit, left to right. The
// other segments are kept.
func (d *Dev) ShowDots(dots []bool) error {
	if d.closed {
		return ErrClosed
	}
	if len(dots) != len(d.digits) {
		return fmt.Errorf("%w: got %d dots for %d digits", ErrLength, len(dots), len(d.digits))
	}
	for i, on := range dots {
		d.digits[i] = setDot(d.digits[i], on)
	}
	return d.changed()
}

// SetColon turns the colon of clock modules on or off. The colon is wired
// to the decimal point of the second digit.
func (d *Dev) SetColon(on bool) error {
	if d.closed {
		return ErrClosed
	}
	if len(d.digits) < 2 {
		return fmt.Errorf("%w: no colon on a %d digit display", ErrLength, len(d.digits))
	}
	d.digits[1] = setDot(d.digits[1], on)
	return d.changed()
}

func setDot(b byte, on bool) byte {
	if on {
		return b | SegDP
	}
	return b &^ SegDP
}

// Brightness returns the current brightness.
func (d *Dev) Brightness() Brightness {
	return d.brightness
}

// SetBrightness lights the display at level, 0 (dimmest) to 7 (brightest).
func (d *Dev) SetBrightness(level int) error {
	if d.closed {
		return ErrClosed
	}
	b, err := checkBrightness(Brightness{Level: level, Enabled: true})
	if err != nil {
		return err
	}
	d.brightness = b
	return d.changed()
}

// Off turns the display off. The segment buffer is kept; SetBrightness turns
// it back on.
func (d *Dev) Off() error {
	if d.closed {
		return ErrClosed
	}
	d.brightness = Brightness{}
	return d.changed()
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() Rotation {
	return d.rotation
}

// SetRotation sets how the display is mounted. At 180 degrees the digit
// order is reversed and every pattern is turned upside down.
func (d *Dev) SetRotation(r Rotation) error {
	if d.closed {
		return ErrClosed
	}
	if err := checkRotation(r); err != nil {
		return err
	}
	d.rotation = r
	return d.changed()
}

// AutoWrite reports whether changes are sent to the display immediately.
func (d *Dev) AutoWrite() bool {
	return d.autoWrite
}

// SetAutoWrite enables or disables immediate refresh. Enabling it does not
// refresh the display.
func (d *Dev) SetAutoWrite(on bool) {
	d.autoWrite = on
}

// Close turns the display off and releases both lines.
func (d *Dev) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true

	// Display control without the "on" bit.
	d.bus.command(cmdDisplayCtrlBase | d.brightness.nibble()&0x07)
	var errs []error
	if err := d.bus.flush(); err != nil {
		errs = append(errs, fmt.Errorf("failed to send display off command: %w", err))
	}
	if err := d.bus.clk.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("tm1637: failed to release clock line: %w", err))
	}
	if err := d.bus.dio.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("tm1637: failed to release data line: %w", err))
	}
	if d.release != nil {
		if err := d.release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
