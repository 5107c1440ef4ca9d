package core

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock returns the current time. Sessions stamp records with it.
type Clock func() time.Time

// SystemClock reads the wall clock on every call.
func SystemClock() time.Time {
	return time.Now()
}

var (
	coarseClockOnce sync.Once
	coarseNow       atomic.Pointer[time.Time]
)

// CoarseClock returns a Clock backed by a cached time value refreshed
// every 500µs by a single background goroutine. Records stamped within the
// same tick share a timestamp; their order field still tells them apart.
// The goroutine is started on first use and lives as long as the process.
func CoarseClock() Clock {
	coarseClockOnce.Do(func() {
		t := time.Now()
		coarseNow.Store(&t)
		go func() {
			ticker := time.NewTicker(500 * time.Microsecond)
			for range ticker.C {
				t := time.Now()
				coarseNow.Store(&t)
			}
		}()
	})
	return coarseTime
}

func coarseTime() time.Time {
	return *coarseNow.Load()
}
