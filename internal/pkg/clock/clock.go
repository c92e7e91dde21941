// Package clock supplies the current time in the configured business time zone.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type system struct {
	loc *time.Location
}

// New returns the wall clock in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return system{loc: loc}
}

func (s system) Now() time.Time {
	return time.Now().In(s.loc)
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// Fixed always returns t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
