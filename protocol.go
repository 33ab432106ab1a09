package tm1637

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// TM1637 commands
const (
	cmdDataAutoAddr    byte = 0x40 // Data command: write data to display register, auto-increment address
	cmdAddrBase        byte = 0xC0 // Address command: start at grid 0
	cmdDisplayCtrlBase byte = 0x80 // Display control command, OR'd with the brightness nibble

	// DefaultBitDelay is the minimum wait after each line transition.
	DefaultBitDelay = 100 * time.Microsecond
)

// Pin is one of the two bidirectional lines wired to the TM1637.
//
// It is the subset of gpio.PinIO the driver needs, so any periph.io pin
// (including gpiotest.Pin) can be used as is.
type Pin interface {
	// Out drives the line as an output.
	Out(l gpio.Level) error
	// In switches the line to an input.
	In(pull gpio.Pull, edge gpio.Edge) error
	// Read returns the current level.
	Read() gpio.Level
	// Halt releases the line.
	Halt() error
}

// DelayFunc blocks for at least d.
type DelayFunc func(d time.Duration)

// bus bit-bangs the TM1637 two-wire protocol over the clock and data pins.
//
// The first pin error is latched; every later line operation in the same
// transaction is skipped and the error is returned by flush.
type bus struct {
	clk   Pin
	dio   Pin
	delay DelayFunc
	bit   time.Duration

	err error
}

func (b *bus) wait() {
	b.delay(b.bit)
}

func (b *bus) out(p Pin, l gpio.Level) {
	if b.err != nil {
		return
	}
	if err := p.Out(l); err != nil {
		b.err = err
	}
}

func (b *bus) in(p Pin) {
	if b.err != nil {
		return
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		b.err = err
	}
}

// start sends the start condition: DIO falls while CLK is high.
func (b *bus) start() {
	b.out(b.dio, gpio.Low)
	b.wait()
}

// stop sends the stop condition: DIO rises while CLK is high.
func (b *bus) stop() {
	b.out(b.dio, gpio.Low)
	b.wait()
	b.out(b.clk, gpio.High)
	b.wait()
	b.out(b.dio, gpio.High)
	b.wait()
}

// writeByte sends one byte, LSB first, and returns the sampled ACK bit. The
// chip pulls DIO low to acknowledge. The ACK is not checked.
func (b *bus) writeByte(data byte) gpio.Level {
	for range 8 {
		b.out(b.clk, gpio.Low)
		b.wait()

		b.out(b.dio, data&0x01 == 0x01)
		b.wait()

		b.out(b.clk, gpio.High)
		b.wait()
		data >>= 1
	}

	b.out(b.clk, gpio.Low)
	b.in(b.dio)
	b.wait()

	b.out(b.clk, gpio.High)
	b.wait()
	ack := gpio.High
	if b.err == nil {
		ack = b.dio.Read()
	}
	// Drive back the level that was read so DIO doesn't change while CLK is
	// high, which the chip would take as a start or stop condition.
	b.out(b.dio, ack)
	b.wait()

	b.out(b.clk, gpio.Low)
	b.wait()
	return ack
}

// command sends a single command byte in its own start/stop bracket.
func (b *bus) command(cmd byte) {
	b.start()
	b.writeByte(cmd)
	b.stop()
}

// transfer sends the three transactions of a full refresh: data command,
// address command with the digit bytes, display control.
func (b *bus) transfer(data []byte, ctrl byte) error {
	b.command(cmdDataAutoAddr)

	b.start()
	b.writeByte(cmdAddrBase)
	for _, d := range data {
		b.writeByte(d)
	}
	b.stop()

	b.command(cmdDisplayCtrlBase | ctrl&0x0f)
	return b.flush()
}

// flush returns and clears the latched error.
func (b *bus) flush() error {
	err := b.err
	b.err = nil
	if err != nil {
		return fmt.Errorf("tm1637: pin I/O failed: %w", err)
	}
	return nil
}
