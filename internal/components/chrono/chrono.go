package chrono

import "time"

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the function from firing, it returns false if the
	// function already fired or the timer was already stopped.
	Stop() bool
}

// API is the clock every time-dependent component uses.
//
// note: fault injection point
type API interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// StandardImpl is the wall clock.
type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

func (StandardImpl) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
