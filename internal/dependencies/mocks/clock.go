package mocks

import (
	"sort"
	"time"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Timers scheduled
// through AfterFunc fire synchronously when Advance moves the clock past
// their deadline.
type MockClock struct {
	CurrentTime time.Time
	timers      []*mockTimer
}

type mockTimer struct {
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// Stop cancels the timer if it has not fired yet
func (t *mockTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// AfterFunc registers f to fire when the clock is advanced past d from now
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &mockTimer{deadline: c.CurrentTime.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires any due timers in deadline order
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)

	due := make([]*mockTimer, 0, len(c.timers))
	remaining := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.deadline.After(c.CurrentTime) {
			due = append(due, t)
		} else if !t.stopped {
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.fired = true
		t.f()
	}
}

// Set sets the clock to the given time without firing timers
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}

// PendingTimers returns the number of scheduled, unfired, unstopped timers
func (c *MockClock) PendingTimers() int {
	count := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}
