package session

import (
	"context"
	"time"
)

// Ticker is the part of time.Ticker the countdown uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates the countdown's ticker.
type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// startTimerLocked launches the countdown task. Caller holds c.mu.
func (c *Controller) startTimerLocked() {
	c.stopTimerLocked()

	ctx, cancel := context.WithCancel(context.Background())
	c.timerCancel = cancel
	ticker := c.opts.NewTicker(c.opts.TickInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				// Submitting cancels ctx; the scorer call must not inherit it.
				c.Tick(context.WithoutCancel(ctx))
			}
		}
	}()
}

// stopTimerLocked cancels the countdown task, if any. Caller holds c.mu.
func (c *Controller) stopTimerLocked() {
	if c.timerCancel != nil {
		c.timerCancel()
		c.timerCancel = nil
	}
}
