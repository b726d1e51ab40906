//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"

	"github.com/mattn/go-tty"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Ticks stops the run after this many scheduler ticks (0 = run forever).
	Ticks uint64
	// TTY attaches the controlling terminal as the input device
	// (w/a/s/d for rotate/left/drop/right; q stops reading the terminal,
	// the run itself goes on until the tick budget or cancellation).
	TTY bool
}

// RunHeadless runs the OS without opening a window. boot is called once
// with the HAL; the loop then feeds the clock until the tick budget is
// spent or the context is canceled.
func RunHeadless(ctx context.Context, h *Host, boot func(HAL), cfg HeadlessConfig) error {
	boot(h)

	if cfg.TTY {
		stop, err := attachTTY(ctx, h)
		if err != nil {
			return fmt.Errorf("tty input: %w", err)
		}
		defer stop()
	}

	period := time.Duration(h.prof.AppTickMillis) * time.Millisecond
	t := time.NewTicker(period)
	defer t.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			ticks += uint64(h.Step())
			if cfg.Ticks > 0 && ticks >= cfg.Ticks {
				return nil
			}
		}
	}
}

// attachTTY reads raw keystrokes and latches them onto the input lines.
func attachTTY(ctx context.Context, h *Host) (func(), error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			r, err := t.ReadRune()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch r {
			case 'w':
				h.Press(KeyRotate)
			case 's':
				h.Press(KeyDrop)
			case 'a':
				h.Press(KeyLeft)
			case 'd':
				h.Press(KeyRight)
			case 'q':
				return
			}
		}
	}()

	return func() {
		t.Close()
		<-done
	}, nil
}
