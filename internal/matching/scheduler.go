package matching

import "time"

// Timer is a cancellable deferred call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

// NewClockScheduler returns a Scheduler backed by the runtime timers.
func NewClockScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Delays are the visual-feedback windows of the game.
type Delays struct {
	Start    time.Duration
	Restart  time.Duration
	Reveal   time.Duration
	Complete time.Duration
	Mismatch time.Duration
	Tick     time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Start:    500 * time.Millisecond,
		Restart:  300 * time.Millisecond,
		Reveal:   500 * time.Millisecond,
		Complete: 800 * time.Millisecond,
		Mismatch: time.Second,
		Tick:     time.Second,
	}
}
