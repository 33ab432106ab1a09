// Package tm1637 drives 7-segment LED displays built around the TM1637
// controller.
//
// The TM1637 talks a two-wire protocol that looks like I²C but isn't: there
// is no address, the chip takes a fixed set of commands and acknowledges
// every byte, and bytes go out least significant bit first. The lines are
// toggled in software through any Pin, such as a periph.io gpio.PinIO or the
// go-rpio backed RPIOPin.
//
// A refresh is three transactions: the data command (0x40, auto-increment
// address), the address command (0xC0) followed by one byte per digit, and
// the display control command (0x80 | brightness).
package tm1637
