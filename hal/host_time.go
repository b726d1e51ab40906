//go:build !tinygo

package hal

import "time"

// tickClock splits wall time into scheduler and application ticks. The
// accumulators keep cadence even when the front end steps at an unrelated
// rate (a 60 Hz window loop, a headless runner).
type tickClock struct {
	schedPeriod time.Duration
	appPeriod   time.Duration

	last     time.Time
	accSched time.Duration
	accApp   time.Duration
}

func newTickClock(prof Profile) tickClock {
	return tickClock{
		schedPeriod: time.Duration(prof.SchedTickMillis) * time.Millisecond,
		appPeriod:   time.Duration(prof.AppTickMillis) * time.Millisecond,
	}
}

// advance returns the number of scheduler and application ticks that
// elapsed since the previous call.
func (c *tickClock) advance() (sched, app int) {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
		return 0, 0
	}
	dt := now.Sub(c.last)
	c.last = now

	c.accSched += dt
	for c.accSched >= c.schedPeriod {
		c.accSched -= c.schedPeriod
		sched++
	}
	c.accApp += dt
	for c.accApp >= c.appPeriod {
		c.accApp -= c.appPeriod
		app++
	}
	return sched, app
}
