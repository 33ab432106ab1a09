// tm1637 shows a value on a TM1637 7-segment display, or runs a demo when no
// value is given.
//
//	tm1637 -clk 23 -dio 24 12.34
//	tm1637 -backend periph -clk GPIO23 -dio GPIO24 -digits 6 -order 2,1,0,5,4,3 -demo
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/rpi-tm1637/tm1637"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func main() {
	backend := flag.String("backend", "rpio", "GPIO backend: rpio (BCM numbers) or periph (pin names)")
	clkPin := flag.String("clk", "23", "clock pin")
	dioPin := flag.String("dio", "24", "data pin")
	digits := flag.Int("digits", tm1637.DefaultDigits, "number of digits")
	order := flag.String("order", "", "comma separated digit order, e.g. 2,1,0,5,4,3")
	brightness := flag.Int("brightness", tm1637.MaxBrightness, "brightness 0-7, or -1 to turn the display off")
	rotate := flag.Int("rotate", 0, "rotation, 0 or 180")
	delay := flag.Duration("delay", tm1637.DefaultBitDelay, "bit delay")
	hex := flag.Bool("hex", false, "print integers in hexadecimal")
	decimals := flag.Int("decimals", 0, "decimal places for non integer values")
	text := flag.Bool("text", false, "print the argument as text, even if it is a number")
	demo := flag.Bool("demo", false, "run the demo")
	flag.Parse()

	opts := tm1637.DefaultOpts
	opts.Digits = *digits
	opts.BitDelay = *delay
	opts.Rotation = tm1637.Rotation(*rotate)
	if *brightness < 0 {
		opts.Brightness = tm1637.Brightness{}
	} else {
		opts.Brightness = tm1637.Brightness{Level: *brightness, Enabled: true}
	}
	if *order != "" {
		o, err := parseOrder(*order)
		if err != nil {
			log.Fatalf("Invalid -order: %v", err)
		}
		opts.DigitOrder = o
	}

	log.Println("Initializing TM1637 display...")
	display, err := open(*backend, *clkPin, *dioPin, &opts)
	if err != nil {
		log.Fatalf("Failed to initialize TM1637 display: %v", err)
	}
	defer func() {
		log.Println("Closing TM1637 display...")
		if err := display.Close(); err != nil {
			log.Printf("Error closing display: %v", err)
		}
	}()
	log.Printf("%s initialized on %s", display, *backend)

	if *demo || flag.NArg() == 0 {
		runDemo(display)
		return
	}

	v := parseValue(strings.Join(flag.Args(), " "), *decimals, *text)
	if *hex {
		err = display.PrintHex(v)
	} else {
		err = display.Print(v)
	}
	if err != nil {
		log.Printf("Error printing %v: %v", v, err)
	}
}

func open(backend, clk, dio string, opts *tm1637.Opts) (*tm1637.Dev, error) {
	switch backend {
	case "rpio":
		c, err := strconv.Atoi(clk)
		if err != nil {
			return nil, fmt.Errorf("invalid BCM pin %q: %w", clk, err)
		}
		d, err := strconv.Atoi(dio)
		if err != nil {
			return nil, fmt.Errorf("invalid BCM pin %q: %w", dio, err)
		}
		return tm1637.OpenRPIO(c, d, opts)
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		c := gpioreg.ByName(clk)
		if c == nil {
			return nil, fmt.Errorf("unknown pin %q", clk)
		}
		d := gpioreg.ByName(dio)
		if d == nil {
			return nil, fmt.Errorf("unknown pin %q", dio)
		}
		return tm1637.New(c, d, opts)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func parseOrder(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	order := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		order[i] = n
	}
	return order, nil
}

// parseValue picks the Value type of the command line argument.
func parseValue(s string, decimals int, text bool) tm1637.Value {
	if text {
		return tm1637.Text(s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return tm1637.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return tm1637.Float(f, decimals)
	}
	return tm1637.Text(s)
}

func runDemo(display *tm1637.Dev) {
	n := display.Digits()

	log.Println("Example 1: Counting")
	for _, v := range []int64{0, 1, 42, -1, -12, 301} {
		if err := display.Print(tm1637.Int(v)); err != nil {
			log.Printf("Error displaying %d: %v", v, err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	log.Println("Example 2: Decimal places")
	for i := range n {
		if err := display.Print(tm1637.Float(-31.141516, i)); err != nil {
			log.Printf("Error displaying with %d decimals: %v", i, err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	log.Println("Example 3: Hexadecimal")
	for _, v := range []int64{0xadaf, 0x2c} {
		if err := display.PrintHex(tm1637.Int(v)); err != nil {
			log.Printf("Error displaying %x: %v", v, err)
		}
		time.Sleep(time.Second)
	}

	log.Println("Example 4: Scrolling 'HELLO PI'")
	message := strings.Repeat(" ", n) + "hello pi" + strings.Repeat(" ", n)
	for pos := 0; pos+n <= len(message); pos++ {
		if err := display.Print(tm1637.Text(message[pos : pos+n])); err != nil {
			log.Printf("Error scrolling text: %v", err)
			break
		}
		time.Sleep(300 * time.Millisecond)
	}

	log.Println("Example 5: Brightness sweep from 0 to 7")
	if err := display.Print(tm1637.Text(strings.Repeat("8", n))); err != nil {
		log.Printf("Error displaying for brightness test: %v", err)
	}
	for level := range tm1637.MaxBrightness + 1 {
		if err := display.SetBrightness(level); err != nil {
			log.Printf("Error setting brightness to %d: %v", level, err)
		}
		time.Sleep(700 * time.Millisecond)
	}

	log.Println("Example 6: Dots and colon")
	dots := make([]bool, n)
	for i := range dots {
		clear(dots)
		dots[i] = true
		if err := display.ShowDots(dots); err != nil {
			log.Printf("Error showing dots: %v", err)
		}
		time.Sleep(300 * time.Millisecond)
	}
	if n >= 2 {
		if err := display.Print(tm1637.Text("1234")); err != nil {
			log.Printf("Error displaying '12:34': %v", err)
		}
		if err := display.SetColon(true); err != nil {
			log.Printf("Error setting colon: %v", err)
		}
		time.Sleep(time.Second)
	}

	log.Println("Example 7: Upside down")
	if err := display.SetRotation(tm1637.Rotate180); err != nil {
		log.Printf("Error rotating display: %v", err)
	}
	time.Sleep(time.Second)
	if err := display.SetRotation(tm1637.Rotate0); err != nil {
		log.Printf("Error rotating display: %v", err)
	}

	log.Println("Clearing display...")
	if err := display.Clear(); err != nil {
		log.Printf("Error clearing display: %v", err)
	}
	log.Println("TM1637 demo finished.")
}
