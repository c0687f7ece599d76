// Package ports defines the interfaces (driven and driving ports) between
// the preparation engines and the infrastructure they run on.
package ports

import "time"

// Handle is a scheduled callback that can be cancelled.
// Cancel is idempotent and safe to call from inside the callback itself.
type Handle interface {
	Cancel()
}

// Clock schedules callbacks in the future.
// This is a driven port (implemented by adapters).
type Clock interface {
	// ScheduleRepeating calls fn every interval until the handle is cancelled.
	ScheduleRepeating(interval time.Duration, fn func()) Handle

	// ScheduleOnce calls fn once after delay unless the handle is cancelled first.
	ScheduleOnce(delay time.Duration, fn func()) Handle
}
