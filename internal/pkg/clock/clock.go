package clock

import (
	"time"
)

// Clock abstracts wall time so deadline-driven state (clear-arm windows,
// transient message expiry) can be tested with logical time.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Until(t time.Time) time.Duration
}

type RealClock struct{}

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) Until(t time.Time) time.Duration {
	return time.Until(t)
}

type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{
		currentTime: t,
	}
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

func (c *MockClock) Since(t time.Time) time.Duration {
	return c.currentTime.Sub(t)
}

func (c *MockClock) Until(t time.Time) time.Duration {
	return t.Sub(c.currentTime)
}

func (c *MockClock) Advance(d time.Duration) {
	c.currentTime = c.currentTime.Add(d)
}

func (c *MockClock) Set(t time.Time) {
	c.currentTime = t
}
