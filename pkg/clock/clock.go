package clock

import "time"

// Clock supplies the current date and time. Services take it as a dependency
// so tests can pin "today" and exercise day-boundary logic deterministically.
type Clock interface {
	Now() time.Time
	// Today returns the current date as YYYY-MM-DD.
	Today() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Today() string { return time.Now().Format("2006-01-02") }

// System returns a Clock backed by the wall clock.
func System() Clock { return systemClock{} }

// Fixed is a Clock frozen at a single instant. Tests mutate T directly to
// simulate the passage of days.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

func (f *Fixed) Today() string { return f.T.Format("2006-01-02") }
