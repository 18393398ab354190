// Package sched runs delayed transitions. Tables use it for the pause after
// a trick; tests swap in Manual to move time by hand.
package sched

import (
	"sort"
	"sync"
	"time"
)

// Timer cancels a scheduled call. Stop reports whether the call was
// prevented from running.
type Timer interface {
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on the wall clock.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Manual is a virtual clock. Scheduled calls run synchronously inside
// Advance, in due order.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m   *Manual
	due time.Duration
	seq int
	f   func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, f: f}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves the clock forward and runs every call that falls due,
// including calls scheduled by those calls.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.Slice(m.pending, func(i, j int) bool {
			if m.pending[i].due != m.pending[j].due {
				return m.pending[i].due < m.pending[j].due
			}
			return m.pending[i].seq < m.pending[j].seq
		})
		if len(m.pending) == 0 || m.pending[0].due > target {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := m.pending[0]
		m.pending = m.pending[1:]
		m.now = t.due
		m.mu.Unlock()

		t.f()
	}
}

// Pending returns how many calls are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i, p := range t.m.pending {
		if p == t {
			t.m.pending = append(t.m.pending[:i], t.m.pending[i+1:]...)
			return true
		}
	}
	return false
}
