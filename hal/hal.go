// Package hal is the only contact point between the operating system and
// the outside world: interrupt control, the display, the control lines,
// LEDs and the serial telemetry channel. A desktop back end (build tag
// !tinygo) emulates the device; the tinygo back end drives the real board.
package hal

import (
	"errors"
	"image/color"

	"ember/kernel"
)

var ErrNotImplemented = errors.New("not implemented")

// Machine is the kernel's port into the platform: interrupt-flag control,
// forced rescheduling, the interrupt stream and the idle/halt states.
type Machine interface {
	kernel.Port
}

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a single output line.
type LED interface {
	High()
	Low()
}

// LEDs groups the board's indicator lines.
type LEDs interface {
	Green() LED
	Red() LED
	Backlight() LED
}

// KeyMask accumulates control-line presses, one bit per control.
type KeyMask uint8

const (
	KeyRotate KeyMask = 1 << iota
	KeyDrop
	KeyLeft
	KeyRight
)

// Input exposes the control lines. Pressed returns and clears the
// accumulated press bits, the way an interrupt handler samples and
// acknowledges a key latch.
type Input interface {
	Pressed() KeyMask
}

// Framebuffer is a monochrome pixel buffer plus a present hook. The method
// set matches the displayer contract the tinygo graphics stack draws onto,
// so font renderers work against it directly.
type Framebuffer interface {
	Size() (x, y int16)
	SetPixel(x, y int16, c color.RGBA)
	Display() error
	ClearBuffer()
}

// Serial is the line-oriented telemetry channel (score reports,
// diagnostics). Delivery is best-effort.
type Serial interface {
	WriteLine(s string)
}

// HAL bundles everything the OS consumes.
type HAL interface {
	Machine() Machine
	Logger() Logger
	LEDs() LEDs
	Framebuffer() Framebuffer
	Input() Input
	Serial() Serial
}
