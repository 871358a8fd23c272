package testutil

import (
	"runtime"
	"testing"
	"time"
)

// LeakDeadline bounds how long AssertNoGoroutineLeaks waits for workers to exit.
const LeakDeadline = 5 * time.Second

// Baseline returns the current goroutine count, for AssertNoGoroutineLeaks.
func Baseline() int {
	return runtime.NumGoroutine()
}

// AssertNoGoroutineLeaks checks that the goroutine count returns to baseline
// (plus margin) before LeakDeadline.
func AssertNoGoroutineLeaks(t *testing.T, baseline int, margin int) {
	t.Helper()
	deadline := time.Now().Add(LeakDeadline)
	for {
		current := runtime.NumGoroutine()
		if current <= baseline+margin {
			return
		}
		if time.Now().After(deadline) {
			t.Errorf("goroutine leak: baseline=%d, current=%d, margin=%d", baseline, current, margin)
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
