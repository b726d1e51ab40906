package kernel

// SetEvent posts events to any task. Anyone may set events on anyone; the
// remaining event operations are restricted to the owning task and live on
// TaskContext. Interrupt handlers use ISR.SetEvent instead, which assumes
// the dispatch critical section.
func (k *Kernel) SetEvent(id TaskID, mask EventMask) {
	k.port.EnterCritical()
	k.setEvent(id, mask)
	k.port.ExitCritical()
}

func (k *Kernel) setEvent(id TaskID, mask EventMask) {
	t := &k.tasks[id]
	t.Events |= mask

	// A task with an awaited bit now set becomes ready. If it outranks the
	// current task, arm the scheduler so the switch happens on the next
	// dispatch cycle rather than the next periodic tick.
	if t.WaitMask&t.Events != 0 {
		t.State = TaskReady
		if t.Priority > k.current.Load().Priority {
			k.port.ForceSchedule()
		}
	}
}

// SetEvent posts events to another task from task level.
func (tc *TaskContext) SetEvent(id TaskID, mask EventMask) {
	tc.k.SetEvent(id, mask)
	tc.switchPoint()
}

// ClearEvents removes the masked bits from this task's events. Only the
// owning task may clear.
func (tc *TaskContext) ClearEvents(mask EventMask) {
	tc.k.port.EnterCritical()
	tc.t.Events &^= mask
	tc.k.port.ExitCritical()
	tc.switchPoint()
}

// GetEvents returns this task's currently set events.
func (tc *TaskContext) GetEvents() EventMask {
	tc.k.port.EnterCritical()
	events := tc.t.Events
	tc.k.port.ExitCritical()
	return events
}

// WaitEvents blocks this task until at least one bit in mask is set on it.
// If one already is, it returns immediately. Satisfied bits are not
// cleared; callers clear them explicitly, otherwise the next wait on the
// same mask falls straight through.
//
// Must not be called while holding resources: the scheduler would keep
// every other interested task off the CPU for as long as the wait lasts.
func (tc *TaskContext) WaitEvents(mask EventMask) {
	k := tc.k
	k.port.EnterCritical()

	tc.t.WaitMask |= mask

	if tc.t.Events&mask == 0 {
		tc.t.State = TaskWaiting
		// Hand the CPU over now instead of waiting out the tick.
		k.port.ForceSchedule()
		k.port.ExitCritical()

		// The context switch is the resumption point: the flow stays
		// parked until the scheduler selects this task again, which only
		// happens after an awaited bit readied it. The loop re-checks to
		// drain stale grants; it does not spin.
		for {
			k.port.EnterCritical()
			set := tc.t.Events & mask
			k.port.ExitCritical()
			if set != 0 {
				tc.switchPoint()
				return
			}
			tc.t.Anchor.park()
		}
	}

	k.port.ExitCritical()
	tc.switchPoint()
}
