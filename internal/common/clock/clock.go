package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/quizroom/internal/common/clock Clock,Timer
type Clock interface {
	Now() time.Time

	// AfterFunc waits for the duration to elapse and then calls f in its own goroutine
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the handle returned by AfterFunc
type Timer interface {
	// Stop prevents the timer from firing; it reports false if the timer already fired or was stopped
	Stop() bool
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on the runtime timer heap
func (c *DefaultClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
