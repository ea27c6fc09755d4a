package anim

import (
	"sort"
	"time"
)

// Task is a deadline-keyed callback fired by a Scheduler.
type Task func(now time.Time)

type scheduled struct {
	at  time.Time
	seq int
	fn  Task
}

// Scheduler is a cooperative task queue keyed by next deadline. It
// replaces per-animation timers: the event loop asks for the next
// deadline, sleeps until it, then calls Advance.
//
// All methods must be called from the UI goroutine.
type Scheduler struct {
	tasks []scheduled
	seq   int
}

// Schedule queues fn to run once Advance is called with a time at or
// after at. Tasks sharing a deadline fire in scheduling order.
func (s *Scheduler) Schedule(at time.Time, fn Task) {
	s.seq++
	s.tasks = append(s.tasks, scheduled{at: at, seq: s.seq, fn: fn})
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at.Equal(s.tasks[j].at) {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].at.Before(s.tasks[j].at)
	})
}

// Next reports the earliest pending deadline.
func (s *Scheduler) Next() (time.Time, bool) {
	if len(s.tasks) == 0 {
		return time.Time{}, false
	}
	return s.tasks[0].at, true
}

// Advance fires every task due at or before now, in deadline order, and
// returns the number fired. Tasks scheduled by running tasks are not
// fired until a later Advance, even if already due.
func (s *Scheduler) Advance(now time.Time) int {
	due := 0
	for due < len(s.tasks) && !s.tasks[due].at.After(now) {
		due++
	}
	if due == 0 {
		return 0
	}
	batch := make([]scheduled, due)
	copy(batch, s.tasks[:due])
	s.tasks = append(s.tasks[:0], s.tasks[due:]...)
	for _, t := range batch {
		t.fn(now)
	}
	return len(batch)
}

// Len reports the number of pending tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }
