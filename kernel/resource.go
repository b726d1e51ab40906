package kernel

// GetResources occupies the masked resources. The call never blocks:
// serialization comes from the scheduler, which refuses to run any task
// whose declared interest intersects resources occupied by another task.
// Correctness
// therefore depends on every task that may ever touch the protected data
// declaring the bits in its RequiredResources mask.
//
// Occupations may nest only strictly bracketed, and a task must not wait
// for events while holding resources.
func (tc *TaskContext) GetResources(mask ResourceMask) {
	k := tc.k
	k.port.EnterCritical()
	k.resourcesOccupied |= mask
	tc.t.holding |= mask
	k.port.ExitCritical()
	tc.switchPoint()
}

// ReleaseResources frees the masked resources and arms the scheduler: a
// higher-priority task blocked by the ceiling may now be eligible, and it
// should preempt before the releaser gets any further.
func (tc *TaskContext) ReleaseResources(mask ResourceMask) {
	k := tc.k
	k.port.EnterCritical()
	k.resourcesOccupied &^= mask
	tc.t.holding &^= mask
	k.port.ForceSchedule()
	k.port.ExitCritical()
	tc.switchPoint()
}

// OccupiedResources returns the union of currently held resources.
func (k *Kernel) OccupiedResources() ResourceMask {
	k.port.EnterCritical()
	occupied := k.resourcesOccupied
	k.port.ExitCritical()
	return occupied
}
