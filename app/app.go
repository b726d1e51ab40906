// Package app is the Tetris device: the static task, timer, resource and
// event configuration on top of the kernel, and the task bodies tying the
// game model to the display, controls, LEDs and serial line.
package app

import (
	"time"

	"ember/app/tetris"
	"ember/hal"
	"ember/kernel"
)

// Task identifiers. They index the task table, so the order here and in
// the table built by Boot must agree.
const (
	TaskIDIdle kernel.TaskID = iota
	TaskIDModel
	TaskIDView
	TaskIDCtrl
)

// Task priorities. Unique by contract; higher wins.
const (
	priorityIdle  = 0
	priorityCtrl  = 1
	priorityView  = 2
	priorityModel = 3
)

// Resources serializing shared state. At most eight per system.
const (
	ResourceSerial kernel.ResourceMask = 1 << iota
	ResourceScreen
	ResourceBacklight
	ResourceLEDRed
	ResourceLEDGreen
	ResourceControls
	ResourceBoard
)

// Events. At most eight per task.
const (
	EventTimer kernel.EventMask = 1 << iota
	EventUpdate
	EventDraw
	EventLeft
	EventRight
	EventRotate
	EventDrop
)

// TimerIDGame drives the falling of the active piece.
const TimerIDGame kernel.TimerID = 0

type system struct {
	k    *kernel.Kernel
	h    hal.HAL
	game *tetris.Game
}

// Boot wires the descriptor tables, starts the OS in the background and
// returns the kernel handle.
func Boot(h hal.HAL) *kernel.Kernel {
	k := kernel.New(h.Machine())
	sys := &system{
		k:    k,
		h:    h,
		game: tetris.New(uint32(time.Now().UnixNano())),
	}

	tasks := []kernel.TaskDescriptor{
		{
			State:    kernel.TaskReady,
			Priority: priorityIdle,
			Entry:    sys.taskIdle,
		},
		{
			State:             kernel.TaskReady,
			Priority:          priorityModel,
			RequiredResources: ResourceControls | ResourceBoard | ResourceSerial,
			Entry:             sys.taskModel,
		},
		{
			State:             kernel.TaskReady,
			Priority:          priorityView,
			RequiredResources: ResourceBoard | ResourceScreen,
			Entry:             sys.taskView,
		},
		{
			State:             kernel.TaskReady,
			Priority:          priorityCtrl,
			RequiredResources: ResourceControls | ResourceBoard,
			Entry:             sys.taskCtrl,
		},
	}

	// One timer drives the game; armed here so the first piece falls
	// without waiting for input.
	timers := []kernel.TimerDescriptor{
		{Value: tetris.SpeedDefault, TaskID: TaskIDModel, Event: EventTimer},
	}

	go k.StartOS(tasks, timers, sys.handleInterrupt)
	return k
}

// Run boots and never returns. Bare-metal entry point.
func Run(h hal.HAL) {
	Boot(h)
	select {}
}

// handleInterrupt runs inside interrupt dispatch: the application tick
// drives the game timer, and input interrupts turn latched key presses
// into events for the control task.
func (s *system) handleInterrupt(isr kernel.ISR, irq kernel.IRQ) {
	switch irq {
	case kernel.IRQAppTick:
		isr.TickTimer(TimerIDGame)
	case kernel.IRQInput:
		keys := s.h.Input().Pressed()
		if keys&hal.KeyLeft != 0 {
			isr.SetEvent(TaskIDCtrl, EventLeft)
		}
		if keys&hal.KeyRight != 0 {
			isr.SetEvent(TaskIDCtrl, EventRight)
		}
		if keys&hal.KeyRotate != 0 {
			isr.SetEvent(TaskIDCtrl, EventRotate)
		}
		if keys&hal.KeyDrop != 0 {
			isr.SetEvent(TaskIDCtrl, EventDrop)
		}
	}
}
