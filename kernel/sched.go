package kernel

// schedule selects the next task to own the CPU.
//
// Among all tasks that are Ready and whose declared resource interest does
// not intersect the resources held by other tasks, the one with the highest
// priority wins. Ties cannot occur: priorities are unique. The resource
// test is the whole priority-ceiling protocol: a task that might touch a
// resource held by another task is simply not eligible, whatever its
// priority.
//
// Preemption rules:
//   - If the current task already left the Running state (yielded into
//     Ready elsewhere, or blocked into Waiting), the selected task takes
//     over unconditionally. The caller that moved the task out of Running
//     owns that state; schedule does not touch it.
//   - If the current task is still Running, it is preempted only by a
//     selected task of strictly higher priority.
//
// Runs to completion, never blocks, and must be invoked with the critical
// section held (the interrupt dispatch path does this).
func (k *Kernel) schedule() {
	// Sentinel below any valid priority, so a priority-0 candidate is
	// found the same way as any other.
	best := -1
	bestPriority := -1

	for i := range k.tasks {
		t := &k.tasks[i]
		if t.State != TaskReady {
			continue
		}
		// The ceiling test: never select a task whose declared interest
		// intersects resources held by anyone else. Its own held bits are
		// exempt, so a preempted holder can still run to release them.
		if t.RequiredResources&(k.resourcesOccupied&^t.holding) != 0 {
			continue
		}
		if int(t.Priority) > bestPriority {
			bestPriority = int(t.Priority)
			best = i
		}
	}
	if best < 0 {
		// Nothing is eligible. A well-formed table always carries an
		// always-ready idle task, so this only happens before StartOS
		// wires the tables; keep the current context.
		return
	}

	next := &k.tasks[best]
	curr := k.current.Load()

	switch curr.State {
	case TaskReady, TaskWaiting:
		next.State = TaskRunning
		k.setCurrent(next, best)
	case TaskRunning:
		if next.Priority > curr.Priority {
			curr.State = TaskReady
			next.State = TaskRunning
			k.setCurrent(next, best)
		}
	}
}
