package anim

import (
	"math"
	"testing"
	"time"
)

func TestValueInterpolation(t *testing.T) {
	v := Rest(10)
	if v.Animating() {
		t.Errorf("resting value should not be animating")
	}
	v.Start(20)
	if !v.Animating() {
		t.Errorf("retargeted value should be animating")
	}
	v.Update(0.5, Linear)
	if got := v.Current(); got != 15 {
		t.Errorf("expected midpoint 15, got %f", got)
	}
	v.Update(1.5, Linear)
	if got := v.Current(); got != 20 {
		t.Errorf("expected completed update to finish at 20, got %f", got)
	}
	if v.Animating() {
		t.Errorf("finished value should not be animating")
	}
}

func TestEasingEndpoints(t *testing.T) {
	for _, tc := range []struct {
		name string
		fn   Easing
	}{
		{"linear", Linear},
		{"ease-out-cubic", EaseOutCubic},
		{"ease-in-cubic", EaseInCubic},
	} {
		if got := tc.fn(0); math.Abs(got) > 1e-9 {
			t.Errorf("%s(0) = %f, want 0", tc.name, got)
		}
		if got := tc.fn(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(1) = %f, want 1", tc.name, got)
		}
	}
}

func TestDriverFinalizesAtDeadline(t *testing.T) {
	var (
		position  = Rest(0)
		selection = Rest(100)
		frames    int
	)
	d := Driver{
		Duration:   100 * time.Millisecond,
		Invalidate: func() { frames++ },
	}
	d.Add(&position, Linear)
	d.Add(&selection, EaseOutCubic)

	start := time.Unix(100, 0)
	position.Start(50)
	selection.Start(200)
	d.Start(start)

	if more := d.Tick(start.Add(50 * time.Millisecond)); !more {
		t.Fatalf("mid-animation tick should request another frame")
	}
	if frames != 1 {
		t.Errorf("expected one invalidation, got %d", frames)
	}
	if got := position.Current(); got != 25 {
		t.Errorf("linear track at half time = %f, want 25", got)
	}
	if got := selection.Current(); got <= 150 {
		t.Errorf("ease-out track should lead linear progress, got %f", got)
	}

	if more := d.Tick(start.Add(150 * time.Millisecond)); more {
		t.Fatalf("tick past the deadline should be terminal")
	}
	if position.Current() != 50 || selection.Current() != 200 {
		t.Errorf("terminal tick must finalize all tracks, got %f and %f",
			position.Current(), selection.Current())
	}
	if d.Animating() {
		t.Errorf("driver should stop after finalizing")
	}
}

func TestDriverDisabledJumpsInstantly(t *testing.T) {
	v := Rest(0)
	d := Driver{Disabled: true}
	d.Add(&v, Linear)
	v.Start(42)
	d.Start(time.Unix(0, 0))
	if v.Current() != 42 {
		t.Errorf("disabled driver must finish instantly, got %f", v.Current())
	}
	if d.Animating() {
		t.Errorf("disabled driver should never report animating")
	}
}

func TestSchedulerOrdering(t *testing.T) {
	var s Scheduler
	base := time.Unix(0, 0)
	var fired []int
	s.Schedule(base.Add(20*time.Millisecond), func(time.Time) { fired = append(fired, 2) })
	s.Schedule(base.Add(10*time.Millisecond), func(time.Time) { fired = append(fired, 1) })
	s.Schedule(base.Add(30*time.Millisecond), func(time.Time) { fired = append(fired, 3) })

	if n := s.Advance(base); n != 0 {
		t.Fatalf("nothing should be due yet, fired %d", n)
	}
	if n := s.Advance(base.Add(25 * time.Millisecond)); n != 2 {
		t.Fatalf("expected two due tasks, fired %d", n)
	}
	if len(fired) != 2 || fired[0] != 1 || fired[1] != 2 {
		t.Errorf("tasks fired out of deadline order: %v", fired)
	}
	if next, ok := s.Next(); !ok || !next.Equal(base.Add(30*time.Millisecond)) {
		t.Errorf("unexpected next deadline %v ok=%v", next, ok)
	}
}

func TestSchedulerReentrantScheduling(t *testing.T) {
	var s Scheduler
	base := time.Unix(0, 0)
	ran := 0
	s.Schedule(base, func(now time.Time) {
		ran++
		s.Schedule(base, func(time.Time) { ran++ })
	})
	if n := s.Advance(base); n != 1 {
		t.Fatalf("reentrantly scheduled task must wait for the next Advance, fired %d", n)
	}
	if n := s.Advance(base); n != 1 {
		t.Fatalf("expected deferred task on second Advance, fired %d", n)
	}
	if ran != 2 {
		t.Errorf("expected both tasks to run, ran %d", ran)
	}
}
