package kernel

import (
	"testing"
	"time"
)

func TestSetEventSetsBits(t *testing.T) {
	k, p := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)
	tick(k)

	k.SetEvent(0, 0x05)
	if got := k.tasks[0].Events & 0x05; got != 0x05 {
		t.Fatalf("expected events 0x05 set, got %#02x", got)
	}
	// No wait mask, no wake, no forced reschedule.
	if k.tasks[0].State != TaskReady {
		t.Fatalf("expected Ready, got %v", k.tasks[0].State)
	}
	if p.forced.Load() != 0 {
		t.Fatal("expected no forced reschedule for a non-waiter")
	}
}

func TestSetEventWakesWaiter(t *testing.T) {
	k, p := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)

	// A waits on 0x01; idle holds the CPU.
	k.tasks[1].State = TaskWaiting
	k.tasks[1].WaitMask = 0x01
	tick(k)
	if got := currentIndex(k); got != 0 {
		t.Fatalf("expected the idle task, got %d", got)
	}

	k.SetEvent(1, 0x01)
	if k.tasks[1].State != TaskReady {
		t.Fatalf("expected the waiter Ready, got %v", k.tasks[1].State)
	}
	if p.forced.Load() == 0 {
		t.Fatal("expected a forced reschedule: the waiter outranks idle")
	}

	tick(k)
	if got := currentIndex(k); got != 1 {
		t.Fatalf("expected the woken task on the CPU, got %d", got)
	}
}

func TestSetEventLowerPriorityDoesNotForce(t *testing.T) {
	k, p := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
		{Priority: 2},
	}, nil)
	k.tasks[1].State = TaskWaiting
	k.tasks[1].WaitMask = 0x01
	tick(k)
	if got := currentIndex(k); got != 2 {
		t.Fatalf("expected task 2, got %d", got)
	}

	k.SetEvent(1, 0x01)
	if k.tasks[1].State != TaskReady {
		t.Fatal("expected the waiter readied")
	}
	if p.forced.Load() != 0 {
		t.Fatal("waking a lower-priority task must wait for the next tick")
	}
}

func TestClearEventsRoundTrip(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)
	tick(k)
	tc := taskContextFor(k, 1)

	before := tc.GetEvents()
	k.SetEvent(1, 0x03)
	tc.ClearEvents(0x03)
	if got := tc.GetEvents(); got != before {
		t.Fatalf("set+clear must leave events unchanged, got %#02x", got)
	}
}

func TestWaitEventsImmediateWhenSet(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)
	tick(k)
	tc := taskContextFor(k, 1)

	// Coalescing: two posts, one wait on the union.
	k.SetEvent(1, 0x01)
	k.SetEvent(1, 0x02)
	tc.WaitEvents(0x03)

	if got := tc.GetEvents() & 0x03; got != 0x03 {
		t.Fatalf("expected both bits still set, got %#02x", got)
	}
	if k.tasks[1].State != TaskRunning {
		t.Fatalf("an immediate wait must not leave Running, got %v", k.tasks[1].State)
	}
}

func TestWaitEventsDoesNotAutoClear(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)
	tick(k)
	tc := taskContextFor(k, 1)

	k.SetEvent(1, 0x01)
	tc.WaitEvents(0x01)
	// Without an explicit clear the next wait falls straight through.
	tc.WaitEvents(0x01)
	if got := tc.GetEvents() & 0x01; got != 0x01 {
		t.Fatalf("expected the bit to survive both waits, got %#02x", got)
	}
}

func TestWaitEventsParksUntilWoken(t *testing.T) {
	k, _ := newTestKernel([]TaskDescriptor{
		{Priority: 0},
		{Priority: 1},
	}, nil)
	k.tasks[1].Anchor = newSavedContext()
	tick(k)
	tc := taskContextFor(k, 1)

	done := make(chan struct{})
	go func() {
		tc.WaitEvents(0x01)
		close(done)
	}()

	// Wait until the task parked itself.
	deadline := time.Now().Add(2 * time.Second)
	for {
		k.port.EnterCritical()
		state := k.tasks[1].State
		k.port.ExitCritical()
		if state == TaskWaiting {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for TaskWaiting")
		}
		time.Sleep(time.Millisecond)
	}
	tick(k)
	if got := currentIndex(k); got != 0 {
		t.Fatalf("expected idle while the waiter sleeps, got %d", got)
	}

	select {
	case <-done:
		t.Fatal("WaitEvents returned before the event was posted")
	case <-time.After(50 * time.Millisecond):
	}

	k.SetEvent(1, 0x01)
	tick(k)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the parked task to resume")
	}
}
