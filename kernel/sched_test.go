package kernel

import "testing"

// tick stands in for one scheduler interrupt.
func tick(k *Kernel) { k.serviceInterrupt(IRQSchedule) }

func TestSchedulerPrefersHighestPriority(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
		{Priority: 2},
	}, nil)

	tick(k)
	if got := currentIndex(k); got != 2 {
		t.Fatalf("expected task 2 on the CPU, got %d", got)
	}
	if k.tasks[2].State != TaskRunning {
		t.Fatalf("expected selected task Running, got %v", k.tasks[2].State)
	}

	// An event the target is not waiting on must not disturb the choice.
	k.SetEvent(1, 0x08)
	tick(k)
	if got := currentIndex(k); got != 2 {
		t.Fatalf("expected task 2 to keep the CPU, got %d", got)
	}
}

func TestBootstrapContextYieldsOnFirstTick(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 3},
	}, nil)

	if k.CurrentTask() != &k.bootstrap {
		t.Fatal("expected the bootstrap context before the first tick")
	}
	if got := k.CurrentTaskID(); got != -1 {
		t.Fatalf("expected bootstrap index -1, got %d", got)
	}

	tick(k)
	if got := currentIndex(k); got != 1 {
		t.Fatalf("expected task 1 after the first tick, got %d", got)
	}
	if k.bootstrap.State != TaskReady {
		t.Fatal("the scheduler must not touch the bootstrap state")
	}
}

func TestExactlyOneTaskRunning(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
		{Priority: 2},
	}, nil)

	for i := 0; i < 4; i++ {
		tick(k)
		running := 0
		for j := range k.tasks {
			if k.tasks[j].State == TaskRunning {
				running++
			}
		}
		if running != 1 {
			t.Fatalf("tick %d: expected exactly one Running task, got %d", i, running)
		}
		// Vary the picture a little between ticks.
		k.tasks[2].State = TaskWaiting
		k.tasks[2].WaitMask = 0x01
	}
}

func TestPriorityCeiling(t *testing.T) {
	const r = ResourceMask(0x01)
	k, p := newTestKernel([]TaskDescriptor{
		{Priority: 0},                         // idle
		{Priority: 1, RequiredResources: r},   // L
		{Priority: 2},                         // M
		{Priority: 3, RequiredResources: r},   // H
	}, nil)

	// Only L is runnable at first; H sits waiting for an event.
	k.tasks[2].State = TaskWaiting
	k.tasks[2].WaitMask = 0x01
	k.tasks[3].State = TaskWaiting
	k.tasks[3].WaitMask = 0x01

	tick(k)
	if got := currentIndex(k); got != 1 {
		t.Fatalf("expected L on the CPU, got %d", got)
	}

	taskContextFor(k, 1).GetResources(r)

	// H becomes ready but must stay off the CPU: its declared resources
	// intersect the occupied set. M is free of the ceiling and preempts L.
	k.SetEvent(3, 0x01)
	k.SetEvent(2, 0x01)
	tick(k)
	if got := currentIndex(k); got != 2 {
		t.Fatalf("expected M despite H being ready, got %d", got)
	}

	// M blocks again; L gets the CPU back, still holding r.
	k.tasks[2].State = TaskWaiting
	k.tasks[2].Events = 0
	tick(k)
	if got := currentIndex(k); got != 1 {
		t.Fatalf("expected L to resume, got %d", got)
	}

	forcedBefore := p.forced.Load()
	taskContextFor(k, 1).ReleaseResources(r)
	if p.forced.Load() == forcedBefore {
		t.Fatal("expected ReleaseResources to force a reschedule")
	}
	tick(k)
	if got := currentIndex(k); got != 3 {
		t.Fatalf("expected H after the release, got %d", got)
	}
}

func TestIdleFallback(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
		{Priority: 2},
	}, nil)

	tick(k)

	for i := 1; i < 3; i++ {
		k.tasks[i].State = TaskWaiting
		k.tasks[i].WaitMask = 0x01
	}
	tick(k)
	if got := currentIndex(k); got != 0 {
		t.Fatalf("expected the idle task, got %d", got)
	}
}

func TestOccupiedPriorityZeroTaskNotSelected(t *testing.T) {
	const r = ResourceMask(0x02)
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0, RequiredResources: r},
	}, nil)
	k.resourcesOccupied = r

	tick(k)
	if k.CurrentTask() != &k.bootstrap {
		t.Fatal("a ceiling-blocked priority-0 task must never be selected")
	}
}
