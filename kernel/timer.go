package kernel

// TimerID indexes the timer table.
type TimerID uint8

// TimerDescriptor is one countdown timer. The owner and event are fixed at
// configuration time; only the remaining count changes.
type TimerDescriptor struct {
	// Value is the remaining tick count. Zero means inactive.
	Value uint8

	// TaskID names the task the expiry event is delivered to. Immutable.
	TaskID TaskID

	// Event is the bit posted to the owner on expiry. Immutable.
	Event EventMask
}

// SetTimer arms a timer with the given number of ticks, or disarms it with
// zero. Callable from any task; interrupt handlers use ISR.SetTimer.
func (k *Kernel) SetTimer(id TimerID, value uint8) {
	k.port.EnterCritical()
	k.timers[id].Value = value
	k.port.ExitCritical()
}

// SetTimer arms or disarms a timer from task level.
func (tc *TaskContext) SetTimer(id TimerID, value uint8) {
	tc.k.SetTimer(id, value)
	tc.switchPoint()
}

// TickTimer advances one timer by one tick. Inactive timers are ignored;
// a timer that reaches zero posts its configured event to its owner. The
// tick cadence is the caller's (the application's interrupt handler ticks
// timers through ISR.TickTimer), so the kernel makes no assumption about
// absolute time.
func (k *Kernel) TickTimer(id TimerID) {
	k.port.EnterCritical()
	k.tickTimer(id)
	k.port.ExitCritical()
}

func (k *Kernel) tickTimer(id TimerID) {
	tm := &k.timers[id]
	if tm.Value == 0 {
		return
	}
	tm.Value--
	if tm.Value == 0 {
		k.setEvent(tm.TaskID, tm.Event)
	}
}
