package sched

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRunDueOrder(t *testing.T) {
	clk := NewManualClock(epoch)
	s := New(clk)

	var got []int
	s.After(30*time.Millisecond, func() { got = append(got, 3) })
	s.After(10*time.Millisecond, func() { got = append(got, 1) })
	s.After(10*time.Millisecond, func() { got = append(got, 2) })

	if n := s.RunDue(); n != 0 {
		t.Fatalf("RunDue before deadline ran %d tasks", n)
	}

	clk.Advance(10 * time.Millisecond)
	if n := s.RunDue(); n != 2 {
		t.Fatalf("RunDue at 10ms ran %d tasks, want 2", n)
	}
	clk.Advance(20 * time.Millisecond)
	s.RunDue()

	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCancel(t *testing.T) {
	clk := NewManualClock(epoch)
	s := New(clk)

	ran := false
	task := s.After(5*time.Millisecond, func() { ran = true })
	if !task.Pending() {
		t.Fatal("fresh task should be pending")
	}
	if !task.Cancel() {
		t.Fatal("first Cancel should report true")
	}
	if task.Cancel() {
		t.Fatal("second Cancel should report false")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d after cancel, want 0", s.Len())
	}

	clk.Advance(time.Second)
	if n := s.RunDue(); n != 0 {
		t.Fatalf("cancelled task ran (%d)", n)
	}
	if ran {
		t.Fatal("cancelled callback executed")
	}
}

func TestCancelAfterRun(t *testing.T) {
	clk := NewManualClock(epoch)
	s := New(clk)

	task := s.After(0, func() {})
	s.RunDue()
	if task.Pending() {
		t.Fatal("task still pending after it ran")
	}
	if task.Cancel() {
		t.Fatal("Cancel on a finished task should be a no-op")
	}
}

func TestZeroDelayNotInline(t *testing.T) {
	s := New(NewManualClock(epoch))
	ran := false
	s.After(0, func() { ran = true })
	if ran {
		t.Fatal("After(0) must not run inline")
	}
	s.RunDue()
	if !ran {
		t.Fatal("After(0) should run on the next RunDue")
	}
}

func TestTaskScheduledDuringRun(t *testing.T) {
	clk := NewManualClock(epoch)
	s := New(clk)

	var order []string
	s.After(0, func() {
		order = append(order, "outer")
		s.After(0, func() { order = append(order, "inner") })
		s.After(time.Hour, func() { order = append(order, "later") })
	})
	s.RunDue()
	if len(order) != 2 || order[1] != "inner" {
		t.Fatalf("order = %v", order)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}
