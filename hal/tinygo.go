//go:build tinygo

package hal

import (
	"image/color"
	"machine"
	"runtime/interrupt"
	"sync/atomic"
	"time"

	"ember/kernel"

	"tinygo.org/x/drivers/pcd8544"
)

const (
	pinButtonRotate = machine.GP2
	pinButtonDrop   = machine.GP3
	pinLEDGreen     = machine.GP4
	pinLEDRed       = machine.GP5
	pinBacklight    = machine.GP6

	pinLCDDC  = machine.GP8
	pinLCDRST = machine.GP9
	pinLCDSCE = machine.GP10

	lcdWidth  = 84
	lcdHeight = 48

	schedTickPeriod = 50 * time.Millisecond
	appTickPeriod   = 4 * time.Millisecond

	rawButtonRotate = 0x01
	rawButtonDrop   = 0x02
)

// deviceMachine implements the kernel port on the board: critical sections
// mask interrupts, and two clock goroutines stand in for the hardware
// timers driving the scheduler and application ticks.
type deviceMachine struct {
	irq      chan kernel.IRQ
	wake     chan struct{}
	enabled  atomic.Bool
	intState interrupt.State
}

func newDeviceMachine() *deviceMachine {
	return &deviceMachine{
		irq:  make(chan kernel.IRQ, 16),
		wake: make(chan struct{}, 1),
	}
}

func (m *deviceMachine) DisableAllInterrupts() { m.enabled.Store(false) }
func (m *deviceMachine) EnableAllInterrupts()  { m.enabled.Store(true) }

func (m *deviceMachine) EnterCritical() { m.intState = interrupt.Disable() }
func (m *deviceMachine) ExitCritical()  { interrupt.Restore(m.intState) }

func (m *deviceMachine) Raise(irq kernel.IRQ) {
	if !m.enabled.Load() {
		return
	}
	select {
	case m.irq <- irq:
	default:
	}
	m.wakeIdle()
}

func (m *deviceMachine) ForceSchedule() {
	select {
	case m.irq <- kernel.IRQSchedule:
	default:
		go func() { m.irq <- kernel.IRQSchedule }()
	}
	m.wakeIdle()
}

func (m *deviceMachine) Interrupts() <-chan kernel.IRQ { return m.irq }

func (m *deviceMachine) Idle() { <-m.wake }

func (m *deviceMachine) Halt() { select {} }

func (m *deviceMachine) wakeIdle() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

type pinLED struct {
	pin machine.Pin
}

func (l pinLED) High() { l.pin.High() }
func (l pinLED) Low()  { l.pin.Low() }

type deviceLEDs struct {
	green, red, backlight pinLED
}

func (l *deviceLEDs) Green() LED     { return l.green }
func (l *deviceLEDs) Red() LED       { return l.red }
func (l *deviceLEDs) Backlight() LED { return l.backlight }

type serialLogger struct{}

func (serialLogger) WriteLineString(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}

func (l serialLogger) WriteLineBytes(b []byte) {
	machine.Serial.Write(b)
	machine.Serial.Write([]byte("\r\n"))
}

func (l serialLogger) WriteLine(s string) { l.WriteLineString(s) }

// deviceInput debounces the buttons on the application tick cadence.
type deviceInput struct {
	deb   *Debouncer
	press atomic.Uint32
}

func (in *deviceInput) sample() bool {
	var raw uint8
	// Buttons are wired active low with pull-ups.
	if !pinButtonRotate.Get() {
		raw |= rawButtonRotate
	}
	if !pinButtonDrop.Get() {
		raw |= rawButtonDrop
	}
	in.deb.Sample(raw)

	edges := in.deb.Pressed(rawButtonRotate | rawButtonDrop)
	if edges == 0 {
		return false
	}
	var k KeyMask
	if edges&rawButtonRotate != 0 {
		k |= KeyRotate
	}
	if edges&rawButtonDrop != 0 {
		k |= KeyDrop
	}
	for {
		old := in.press.Load()
		if in.press.CompareAndSwap(old, old|uint32(k)) {
			break
		}
	}
	return true
}

func (in *deviceInput) Pressed() KeyMask {
	return KeyMask(in.press.Swap(0))
}

// Device is the board HAL.
type Device struct {
	m    *deviceMachine
	log  serialLogger
	leds *deviceLEDs
	fb   *MonoBuffer
	in   *deviceInput
	lcd  *pcd8544.Device
}

// NewDevice initializes the board peripherals and returns the HAL.
func NewDevice() *Device {
	for _, p := range []machine.Pin{pinLEDGreen, pinLEDRed, pinBacklight} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	for _, p := range []machine.Pin{pinButtonRotate, pinButtonDrop} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	machine.SPI0.Configure(machine.SPIConfig{Frequency: 4_000_000})
	lcd := pcd8544.New(machine.SPI0, pinLCDDC, pinLCDRST, pinLCDSCE)
	lcd.Configure(pcd8544.Config{Width: lcdWidth, Height: lcdHeight})

	d := &Device{
		m:    newDeviceMachine(),
		leds: &deviceLEDs{green: pinLED{pinLEDGreen}, red: pinLED{pinLEDRed}, backlight: pinLED{pinBacklight}},
		in:   &deviceInput{deb: NewDebouncer()},
		lcd:  lcd,
	}
	d.fb = NewMonoBuffer(lcdWidth, lcdHeight, d.presentLCD)

	go d.schedClock()
	go d.appClock()
	return d
}

func (d *Device) schedClock() {
	for {
		time.Sleep(schedTickPeriod)
		d.m.Raise(kernel.IRQSchedule)
	}
}

func (d *Device) appClock() {
	for {
		time.Sleep(appTickPeriod)
		if d.in.sample() {
			d.m.Raise(kernel.IRQInput)
		}
		d.m.Raise(kernel.IRQAppTick)
	}
}

var (
	lcdOn  = color.RGBA{R: 1, G: 1, B: 1, A: 255}
	lcdOff = color.RGBA{A: 255}
)

func (d *Device) presentLCD(b *MonoBuffer) error {
	w, h := b.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			if b.Pixel(x, y) {
				d.lcd.SetPixel(x, y, lcdOn)
			} else {
				d.lcd.SetPixel(x, y, lcdOff)
			}
		}
	}
	return d.lcd.Display()
}

func (d *Device) Machine() Machine         { return d.m }
func (d *Device) Logger() Logger           { return d.log }
func (d *Device) LEDs() LEDs               { return d.leds }
func (d *Device) Framebuffer() Framebuffer { return d.fb }
func (d *Device) Input() Input             { return d.in }
func (d *Device) Serial() Serial           { return d.log }
