package marquee

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestManualSchedulerOrder(t *testing.T) {
	t.Parallel()
	s := NewManualScheduler()
	var got []string
	s.After(100*time.Millisecond, func() { got = append(got, "late") })
	s.After(0, func() { got = append(got, "first") })
	s.After(0, func() {
		got = append(got, "second")
		s.After(10*time.Millisecond, func() { got = append(got, "nested") })
	})

	if n := s.Advance(0); n != 2 {
		t.Fatalf("Advance(0) ran %d callbacks, expected 2", n)
	}
	if n := s.Advance(50 * time.Millisecond); n != 1 {
		t.Fatalf("Advance(50ms) ran %d callbacks, expected 1", n)
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, expected 1", s.Pending())
	}
	s.Advance(50 * time.Millisecond)
	want := []string{"first", "second", "nested", "late"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("callback order mismatch (-want +got):\n%s", diff)
	}
}

func TestManualSchedulerStop(t *testing.T) {
	t.Parallel()
	s := NewManualScheduler()
	ran := false
	timer := s.After(time.Second, func() { ran = true })
	if !timer.Stop() {
		t.Fatal("Stop() on a pending timer should report true")
	}
	if timer.Stop() {
		t.Fatal("second Stop() should report false")
	}
	s.Advance(2 * time.Second)
	if ran {
		t.Fatal("stopped callback ran")
	}
}

func TestManualSchedulerNegativeDelay(t *testing.T) {
	t.Parallel()
	s := NewManualScheduler()
	ran := false
	s.After(-time.Second, func() { ran = true })
	s.Advance(0)
	if !ran {
		t.Fatal("negative delay should run at the current time")
	}
}

func TestSystemScheduler(t *testing.T) {
	t.Parallel()
	var fired atomic.Int32
	done := make(chan struct{})
	SystemScheduler().After(time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})
	stopped := SystemScheduler().After(time.Hour, func() { fired.Add(100) })
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("system timer did not fire")
	}
	if !stopped.Stop() {
		t.Fatal("long timer should still be pending")
	}
	if fired.Load() != 1 {
		t.Fatalf("fired = %d, expected 1", fired.Load())
	}
}
