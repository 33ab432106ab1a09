package tm1637

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// wire simulates the two lines and decodes what a TM1637 would see: a start
// condition opens a frame, every clock rise while DIO is driven adds a bit
// (LSB first), a clock rise while DIO is an input is the ACK slot and a stop
// condition closes the frame.
type wire struct {
	clk, dio gpio.Level
	dioIn    bool
	// ackLevel is what the chip puts on DIO while it is an input. Low is an ACK.
	ackLevel gpio.Level

	inFrame bool
	cur     byte
	nbits   int
	frame   []byte

	frames [][]byte
	acks   int
	delays int
	halted int

	failOut error
}

type wirePin struct {
	w     *wire
	clock bool
}

func (p *wirePin) Out(l gpio.Level) error {
	w := p.w
	if w.failOut != nil {
		return w.failOut
	}
	if p.clock {
		if !w.clk && l {
			w.rising()
		}
		w.clk = l
		return nil
	}
	prev := w.dio
	w.dioIn = false
	w.dio = l
	if w.clk && prev != l {
		if l {
			w.stopCondition()
		} else {
			w.startCondition()
		}
	}
	return nil
}

func (p *wirePin) In(pull gpio.Pull, edge gpio.Edge) error {
	if p.clock {
		return errors.New("wire: clock is output only")
	}
	if pull != gpio.PullUp || edge != gpio.NoEdge {
		return errors.New("wire: DIO must be read with a pull-up and no edge")
	}
	p.w.dioIn = true
	p.w.dio = p.w.ackLevel
	return nil
}

func (p *wirePin) Read() gpio.Level {
	if p.clock {
		return p.w.clk
	}
	return p.w.dio
}

func (p *wirePin) Halt() error {
	p.w.halted++
	return nil
}

func (w *wire) rising() {
	if !w.inFrame {
		return
	}
	if w.dioIn {
		w.acks++
		return
	}
	if w.dio {
		w.cur |= 1 << w.nbits
	}
	w.nbits++
	if w.nbits == 8 {
		w.frame = append(w.frame, w.cur)
		w.cur, w.nbits = 0, 0
	}
}

func (w *wire) startCondition() {
	w.inFrame = true
	w.frame = []byte{}
	w.cur, w.nbits = 0, 0
}

func (w *wire) stopCondition() {
	if w.inFrame {
		w.frames = append(w.frames, w.frame)
	}
	w.inFrame = false
	w.cur, w.nbits = 0, 0
}

// reset forgets the recorded frames and counters.
func (w *wire) reset() {
	w.frames = nil
	w.acks = 0
	w.delays = 0
}

// newTestDev returns a Dev on a simulated wire. A nil opts uses DefaultOpts.
func newTestDev(t *testing.T, opts *Opts) (*Dev, *wire) {
	t.Helper()
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	w := &wire{}
	bit := o.BitDelay
	if bit <= 0 {
		bit = DefaultBitDelay
	}
	o.Delay = func(d time.Duration) {
		if d != bit {
			t.Errorf("delay: got %v, want %v", d, bit)
		}
		w.delays++
	}
	dev, err := New(&wirePin{w: w, clock: true}, &wirePin{w: w}, &o)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return dev, w
}

// refresh returns the frames of a full refresh.
func refresh(digits []byte, ctrl byte) [][]byte {
	return [][]byte{
		{cmdDataAutoAddr},
		append([]byte{cmdAddrBase}, digits...),
		{cmdDisplayCtrlBase | ctrl},
	}
}
