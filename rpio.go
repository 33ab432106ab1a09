package tm1637

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
)

// OpenRPIO opens the Raspberry Pi GPIO memory map and returns a display on the
// given BCM pin numbers. Close also closes rpio; when other parts of the
// program use rpio, use New with pins of their own instead.
func OpenRPIO(clkPinNumber, dioPinNumber int, opts *Opts) (*Dev, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("tm1637: failed to open rpio: %w", err)
	}
	d, err := New(NewRPIOPin(clkPinNumber), NewRPIOPin(dioPinNumber), opts)
	if err != nil {
		rpio.Close()
		return nil, err
	}
	d.release = rpio.Close
	return d, nil
}

// RPIOPin is a Pin on a Raspberry Pi GPIO, accessed through go-rpio.
// rpio.Open must have been called.
type RPIOPin struct {
	pin    rpio.Pin
	output bool
}

// NewRPIOPin returns the pin with the given BCM number.
func NewRPIOPin(number int) *RPIOPin {
	return &RPIOPin{pin: rpio.Pin(number)}
}

// Out implements Pin.
//
// The level is latched before the pin is switched to output so the line
// never shows the previous output level.
func (p *RPIOPin) Out(l gpio.Level) error {
	if l {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	if !p.output {
		p.pin.Output()
		p.output = true
	}
	return nil
}

// In implements Pin. Edge detection is not supported.
func (p *RPIOPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return fmt.Errorf("tm1637: edge detection is not supported on rpio pin %d", p.pin)
	}
	p.pin.Input()
	p.output = false
	switch pull {
	case gpio.PullUp:
		p.pin.PullUp()
	case gpio.PullDown:
		p.pin.PullDown()
	case gpio.Float:
		p.pin.PullOff()
	}
	return nil
}

// Read implements Pin.
func (p *RPIOPin) Read() gpio.Level {
	return p.pin.Read() == rpio.High
}

// Halt implements Pin. The pin is left as an input without pull.
func (p *RPIOPin) Halt() error {
	p.pin.Input()
	p.pin.PullOff()
	p.output = false
	return nil
}

func (p *RPIOPin) String() string {
	return fmt.Sprintf("GPIO%d", int(p.pin))
}

var _ Pin = &RPIOPin{}
