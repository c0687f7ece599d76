// Package clock provides implementations of the ports.Clock interface.
package clock

import (
	"sync"
	"time"

	"github.com/xvierd/prep-cli/internal/ports"
)

// Real schedules callbacks on the system clock.
type Real struct{}

// Ensure Real implements ports.Clock.
var _ ports.Clock = Real{}

// NewReal creates a clock backed by the time package.
func NewReal() Real {
	return Real{}
}

type tickerHandle struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

// ScheduleRepeating runs fn on its own goroutine every interval until cancelled.
func (Real) ScheduleRepeating(interval time.Duration, fn func()) ports.Handle {
	h := &tickerHandle{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-h.ticker.C:
				// A tick may race with Cancel; prefer the cancellation.
				select {
				case <-h.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return h
}

type timerHandle struct {
	timer *time.Timer
}

func (h timerHandle) Cancel() {
	h.timer.Stop()
}

// ScheduleOnce runs fn after delay unless cancelled first.
func (Real) ScheduleOnce(delay time.Duration, fn func()) ports.Handle {
	return timerHandle{timer: time.AfterFunc(delay, fn)}
}
