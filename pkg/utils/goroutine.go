// Package utils holds small test support helpers shared across packages.
package utils

import (
	"bytes"
	"runtime"
	"runtime/pprof"
	"testing"
	"time"
)

// CheckGoroutineLeaks snapshots the goroutine count and returns a cleanup
// func for deferring. The cleanup polls until the count returns to the
// baseline or the deadline passes, then fails the test with a goroutine
// dump. Intended for tests that start and stop background workers.
func CheckGoroutineLeaks(t *testing.T) func() {
	t.Helper()

	// Let goroutines from earlier tests settle before taking the baseline.
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	return func() {
		t.Helper()

		deadline := time.Now().Add(2 * time.Second)
		var current int
		for time.Now().Before(deadline) {
			current = runtime.NumGoroutine()
			if current <= baseline {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}

		var buf bytes.Buffer
		_ = pprof.Lookup("goroutine").WriteTo(&buf, 1)
		t.Errorf("goroutine leak: %d before, %d after\n%s", baseline, current, buf.String())
	}
}
