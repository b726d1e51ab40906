// Package kernel implements a statically-configured fixed-priority
// preemptive multitasking core in the OSEK/VDX style: a scheduler with
// priority-ceiling resource eligibility, per-task event flags, countdown
// timers, and a goroutine-backed context-switch port.
//
// All configuration is declared up front: a task table, a timer table, and
// per-task resource interest masks. There is no dynamic task creation and no
// teardown. Misuse (out-of-range ids, duplicate priorities, waiting while
// holding resources) is a configuration-time contract violation; the kernel
// has no runtime error channel.
package kernel

import "sync/atomic"

// Kernel is the single-instance operating system state.
type Kernel struct {
	port Port

	tasks  []TaskDescriptor
	timers []TimerDescriptor

	// current is the descriptor owning the CPU. Written only inside the
	// critical section; read lock-free by parked flows.
	current atomic.Pointer[TaskDescriptor]

	// currentIndex is the task-table index of current, or -1 while the
	// bootstrap context runs. Kept so identity checks need no table scan.
	currentIndex int

	// resourcesOccupied is the union of all currently held resources. The
	// ceiling test in the scheduler reads this union, minus the bits the
	// candidate itself holds (TaskDescriptor.holding).
	resourcesOccupied ResourceMask

	// bootstrap stands in for the pre-multitasking context. Priority 0 and
	// state Ready, so the first scheduler run yields to any real task.
	bootstrap TaskDescriptor

	handler InterruptHandler
}

// New creates the kernel on top of a machine port.
func New(port Port) *Kernel {
	k := &Kernel{port: port, currentIndex: -1}
	k.bootstrap = TaskDescriptor{State: TaskReady, Priority: 0}
	k.current.Store(&k.bootstrap)
	return k
}

// CurrentTask returns the descriptor owning the CPU.
func (k *Kernel) CurrentTask() *TaskDescriptor { return k.current.Load() }

// CurrentTaskID returns the table index of the current task, or -1 for the
// bootstrap context.
func (k *Kernel) CurrentTaskID() int { return k.currentIndex }

func (k *Kernel) setCurrent(t *TaskDescriptor, index int) {
	k.currentIndex = index
	k.current.Store(t)
}

// StartOS wires the descriptor tables into the kernel, spawns one flow per
// task (parked on its virtual saved context), installs the interrupt
// handler, enables interrupts and idles the bootstrap context forever. The
// first scheduler tick switches into the highest-priority task.
//
// The task table must contain an idle task: always Ready, priority 0, no
// resource interest. It is what the scheduler falls back to when every
// other task is waiting or ceiling-blocked.
//
// StartOS does not return.
func (k *Kernel) StartOS(tasks []TaskDescriptor, timers []TimerDescriptor, handler InterruptHandler) {
	k.port.EnterCritical()
	k.tasks = tasks
	k.timers = timers
	k.handler = handler
	for i := range k.tasks {
		k.startFlow(&k.tasks[i], TaskID(i))
	}
	k.port.ExitCritical()

	go k.dispatchInterrupts()

	k.port.EnableAllInterrupts()

	for {
		k.port.Idle()
	}
}

// Shutdown turns off interrupt delivery and halts. It does not return.
func (k *Kernel) Shutdown() {
	k.port.DisableAllInterrupts()
	k.port.Halt()
}

func (k *Kernel) dispatchInterrupts() {
	for irq := range k.port.Interrupts() {
		k.serviceInterrupt(irq)
	}
}

// serviceInterrupt is the ISR skeleton: save the interrupted context, run
// the scheduler and/or the application handler, restore the context of
// whichever task is current afterwards. The whole body runs inside the
// critical section; interrupts do not nest.
func (k *Kernel) serviceInterrupt(irq IRQ) {
	k.port.EnterCritical()

	prev := k.current.Load()
	k.saveContext(prev)

	if irq == IRQSchedule {
		k.schedule()
	}
	if k.handler != nil {
		k.handler(ISR{k: k}, irq)
	}

	k.restoreContext(prev)
	k.port.ExitCritical()
}

// TaskContext is a task's handle on the kernel. Operations that the
// contract restricts to the owning task (clearing and reading events,
// waiting, occupying resources) hang off it, so they cannot be misdirected
// at another task's descriptor.
type TaskContext struct {
	k  *Kernel
	id TaskID
	t  *TaskDescriptor
}

// ID returns the task's table index.
func (tc *TaskContext) ID() TaskID { return tc.id }

// Idle sleeps until the next interrupt. Meant as the loop body of the idle
// task.
func (tc *TaskContext) Idle() {
	tc.k.parkUntilCurrent(tc.t)
	tc.k.port.Idle()
}

// switchPoint is the epilogue of every task-level service: if an interrupt
// de-scheduled this task meanwhile, save its context here and wait to be
// selected again.
func (tc *TaskContext) switchPoint() {
	tc.k.parkUntilCurrent(tc.t)
}

// Shutdown halts the system from task level.
func (tc *TaskContext) Shutdown() {
	tc.k.Shutdown()
}
