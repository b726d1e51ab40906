package kernel

// IRQ identifies an interrupt line.
type IRQ uint8

const (
	// IRQSchedule drives the scheduler. The machine layer raises it
	// periodically at kernel-tick cadence; ForceSchedule arms it to fire on
	// the next dispatch cycle.
	IRQSchedule IRQ = iota
	// IRQAppTick is the application timer tick. It runs the installed
	// interrupt handler, which typically ticks countdown timers.
	IRQAppTick
	// IRQInput reports activity on the input lines.
	IRQInput
)

// Port is everything the kernel needs from the machine layer.
//
// A bare-metal port maps these onto the interrupt flag and timer registers;
// the host port emulates them with a mutex and channels.
type Port interface {
	// DisableAllInterrupts and EnableAllInterrupts control the master
	// interrupt flag. While disabled, no interrupt request is delivered.
	DisableAllInterrupts()
	EnableAllInterrupts()

	// EnterCritical and ExitCritical bracket every kernel service body.
	// A critical section is atomic with respect to interrupt dispatch and
	// to the service bodies of other tasks. Sections do not nest.
	EnterCritical()
	ExitCritical()

	// ForceSchedule arms IRQSchedule so that the scheduler runs on the
	// earliest possible dispatch cycle. Each call requests its own
	// scheduler run.
	ForceSchedule()

	// Interrupts is the stream of pending interrupt requests.
	Interrupts() <-chan IRQ

	// Idle sleeps in a low-power state until the next interrupt.
	Idle()

	// Halt sleeps forever. Called by Shutdown after interrupts are off.
	Halt()
}

// ISR gives interrupt handlers access to kernel services. All methods assume
// the critical section the dispatch loop already holds; they must not be
// retained past the handler invocation.
type ISR struct {
	k *Kernel
}

// SetEvent posts events to a task from interrupt context.
func (i ISR) SetEvent(id TaskID, mask EventMask) { i.k.setEvent(id, mask) }

// TickTimer decrements a timer, posting its event if it expires.
func (i ISR) TickTimer(id TimerID) { i.k.tickTimer(id) }

// SetTimer arms (or, with 0, disarms) a timer from interrupt context.
func (i ISR) SetTimer(id TimerID, value uint8) { i.k.timers[id].Value = value }

// CurrentTask returns the task owning the CPU when the interrupt fired.
func (i ISR) CurrentTask() *TaskDescriptor { return i.k.current.Load() }

// InterruptHandler is the application hook run inside interrupt dispatch,
// after the scheduler. The original hardware wires button sampling and the
// game timer tick here.
type InterruptHandler func(isr ISR, irq IRQ)
