package app

import (
	"fmt"

	"ember/app/tetris"
	"ember/kernel"
)

// taskIdle runs when nothing else is eligible: put the core to sleep until
// the next interrupt.
func (s *system) taskIdle(tc *kernel.TaskContext) {
	for {
		tc.Idle()
	}
}

// taskModel owns the game state. It advances the falling piece on timer
// events, folds in control updates, settles landed pieces, sweeps rows and
// re-arms the game timer with the current falling speed.
func (s *system) taskModel(tc *kernel.TaskContext) {
	g := s.game
	leds := s.h.LEDs()

	for {
		// Either the game timer fired or the control task changed the
		// falling piece.
		tc.WaitEvents(EventTimer | EventUpdate)

		// Put the LEDs out in case a completed row or a restart lit them.
		leds.Green().Low()
		leds.Red().Low()

		tc.GetResources(ResourceControls | ResourceBoard)

		if tc.GetEvents()&EventUpdate != 0 {
			tc.ClearEvents(EventUpdate)
		}

		// Lift the piece off the board before testing its next position
		// against the settled squares.
		if g.Falling.Y < tetris.BoardRows-1 {
			g.Remove(g.Falling)
		}

		if tc.GetEvents()&EventTimer != 0 {
			g.Falling.Y++
			tc.ClearEvents(EventTimer)
		}

		if g.Collides(g.Falling) {
			// The piece landed one row up; settle it there.
			landed := g.Falling
			landed.Y--
			g.Add(landed)

			if g.SweepRows() > 0 {
				leds.Green().High()
				s.h.Serial().WriteLine(fmt.Sprintf("score: %d", g.Score))
			}

			g.Spawn()

			// A fresh piece that collides immediately means the stack
			// reached the top.
			if g.Collides(g.Falling) {
				leds.Red().High()
				s.h.Serial().WriteLine("game over, starting a new game")
				g.Reset()
			}
		}

		g.Add(g.Falling)

		tc.ReleaseResources(ResourceBoard | ResourceControls)

		// Re-arm according to the current falling speed and have the view
		// redraw the board.
		tc.SetTimer(TimerIDGame, g.Falling.Speed)
		tc.SetEvent(TaskIDView, EventDraw)
	}
}

// taskView translates the board into pixels whenever a draw is requested.
func (s *system) taskView(tc *kernel.TaskContext) {
	fb := s.h.Framebuffer()

	for {
		tc.WaitEvents(EventDraw)
		tc.ClearEvents(EventDraw)

		fb.ClearBuffer()
		drawPlayfieldFrame(fb)

		// Do not let the model shift rows while the frame is built.
		tc.GetResources(ResourceBoard)
		board := s.game.Board
		score := s.game.Score
		tc.ReleaseResources(ResourceBoard)

		drawBoard(fb, &board)
		drawScore(fb, score)

		fb.Display()
	}
}

// taskCtrl validates control requests against the board and signals the
// model when the falling piece actually changed.
func (s *system) taskCtrl(tc *kernel.TaskContext) {
	g := s.game

	for {
		tc.WaitEvents(EventLeft | EventRight | EventRotate | EventDrop)
		events := tc.GetEvents()

		// The board is taken too: moves lift the piece off it, and the view
		// must not draw the gap.
		tc.GetResources(ResourceControls | ResourceBoard)

		// Lift the piece so it cannot collide with itself.
		g.Remove(g.Falling)
		updated := false

		if events&EventLeft != 0 {
			if g.MoveTowardMax() {
				updated = true
			}
			tc.ClearEvents(EventLeft)
		}
		if events&EventRight != 0 {
			if g.MoveTowardZero() {
				updated = true
			}
			tc.ClearEvents(EventRight)
		}
		if events&EventRotate != 0 {
			if g.Rotate() {
				updated = true
			}
			tc.ClearEvents(EventRotate)
		}
		if events&EventDrop != 0 {
			g.Accelerate()
			tc.ClearEvents(EventDrop)
		}

		g.Add(g.Falling)

		tc.ReleaseResources(ResourceBoard | ResourceControls)

		if updated {
			tc.SetEvent(TaskIDModel, EventUpdate)
		}
	}
}
