package services

import (
	"testing"
	"time"

	"github.com/xvierd/prep-cli/internal/adapters/clock"
	"github.com/xvierd/prep-cli/internal/adapters/storage"
	"github.com/xvierd/prep-cli/internal/ports"
)

func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newFakeClock() *clock.Fake {
	return clock.NewFake(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
}

// manualClock hands out handles whose Cancel does nothing, so a test can
// invoke a callback after it was cancelled.
type manualClock struct {
	repeating []func()
	once      []func()
}

type noopHandle struct{}

func (noopHandle) Cancel() {}

func (c *manualClock) ScheduleRepeating(_ time.Duration, fn func()) ports.Handle {
	c.repeating = append(c.repeating, fn)
	return noopHandle{}
}

func (c *manualClock) ScheduleOnce(_ time.Duration, fn func()) ports.Handle {
	c.once = append(c.once, fn)
	return noopHandle{}
}
