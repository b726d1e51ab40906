//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"ember/kernel"
)

// hostMachine emulates the single-core machine: a mutex stands in for the
// global interrupt flag's critical section, and a buffered channel carries
// interrupt requests to the kernel's dispatch loop.
type hostMachine struct {
	mu      sync.Mutex
	irq     chan kernel.IRQ
	enabled atomic.Bool
	wake    chan struct{}
}

func newHostMachine() *hostMachine {
	return &hostMachine{
		irq:  make(chan kernel.IRQ, 64),
		wake: make(chan struct{}, 1),
	}
}

func (m *hostMachine) DisableAllInterrupts() { m.enabled.Store(false) }
func (m *hostMachine) EnableAllInterrupts()  { m.enabled.Store(true) }

func (m *hostMachine) EnterCritical() { m.mu.Lock() }
func (m *hostMachine) ExitCritical()  { m.mu.Unlock() }

// Raise queues an interrupt request. Requests are dropped while the master
// flag is off, and coalesce on overflow like a tick landing on an already
// pending line.
func (m *hostMachine) Raise(irq kernel.IRQ) {
	if !m.enabled.Load() {
		return
	}
	select {
	case m.irq <- irq:
	default:
	}
	m.wakeIdle()
}

// ForceSchedule must not drop: a task yielding the CPU relies on the
// scheduler actually running. On overflow the request is posted from a
// helper so delivery is merely delayed.
func (m *hostMachine) ForceSchedule() {
	select {
	case m.irq <- kernel.IRQSchedule:
	default:
		go func() { m.irq <- kernel.IRQSchedule }()
	}
	m.wakeIdle()
}

func (m *hostMachine) Interrupts() <-chan kernel.IRQ { return m.irq }

// Idle naps until the next interrupt request, the emulated low-power state.
func (m *hostMachine) Idle() { <-m.wake }

// Halt sleeps forever.
func (m *hostMachine) Halt() { select {} }

func (m *hostMachine) wakeIdle() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	name   string
	on     atomic.Bool
	logger *hostLogger
}

func (l *hostLED) High() {
	if !l.on.Swap(true) {
		l.logger.WriteLineString("led " + l.name + ": HIGH")
	}
}

func (l *hostLED) Low() {
	if l.on.Swap(false) {
		l.logger.WriteLineString("led " + l.name + ": LOW")
	}
}

type hostLEDs struct {
	green, red, backlight *hostLED
}

func (l *hostLEDs) Green() LED     { return l.green }
func (l *hostLEDs) Red() LED       { return l.red }
func (l *hostLEDs) Backlight() LED { return l.backlight }

// hostInput latches key presses from the front end until the interrupt
// handler samples them.
type hostInput struct {
	mu    sync.Mutex
	press KeyMask
}

func (in *hostInput) press1(k KeyMask) {
	in.mu.Lock()
	in.press |= k
	in.mu.Unlock()
}

func (in *hostInput) Pressed() KeyMask {
	in.mu.Lock()
	k := in.press
	in.press = 0
	in.mu.Unlock()
	return k
}

// Host is the desktop HAL. The window and headless front ends feed its
// clock and input lines.
type Host struct {
	prof Profile

	m    *hostMachine
	log  *hostLogger
	leds *hostLEDs
	fb   *MonoBuffer
	in   *hostInput
	ser  Serial

	clk tickClock
}

// New returns a host HAL for the given device profile. ser may be nil, in
// which case telemetry goes to stdout.
func New(prof Profile, ser Serial) *Host {
	log := &hostLogger{w: os.Stdout}
	if ser == nil {
		ser = &stdoutSerial{log: log}
	}
	h := &Host{
		prof: prof,
		m:    newHostMachine(),
		log:  log,
		leds: &hostLEDs{
			green:     &hostLED{name: "green", logger: log},
			red:       &hostLED{name: "red", logger: log},
			backlight: &hostLED{name: "backlight", logger: log},
		},
		fb:  NewMonoBuffer(int16(prof.Display.Width), int16(prof.Display.Height), nil),
		in:  &hostInput{},
		ser: ser,
	}
	h.clk = newTickClock(prof)
	return h
}

func (h *Host) Machine() Machine         { return h.m }
func (h *Host) Logger() Logger           { return h.log }
func (h *Host) LEDs() LEDs               { return h.leds }
func (h *Host) Framebuffer() Framebuffer { return h.fb }
func (h *Host) Input() Input             { return h.in }
func (h *Host) Serial() Serial           { return h.ser }

// Press latches a control press and raises the input interrupt.
func (h *Host) Press(k KeyMask) {
	h.in.press1(k)
	h.m.Raise(kernel.IRQInput)
}

// Step advances the emulated clock, raising the scheduler and application
// tick interrupts that elapsed. Returns the number of scheduler ticks.
func (h *Host) Step() int {
	sched, app := h.clk.advance()
	for i := 0; i < app; i++ {
		h.m.Raise(kernel.IRQAppTick)
	}
	for i := 0; i < sched; i++ {
		h.m.Raise(kernel.IRQSchedule)
	}
	return sched
}
