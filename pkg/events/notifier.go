package events

import (
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/types"
)

// Notifier receives the presentation side effects of a suite run
type Notifier interface {
	// StateChanged is called when the runner enters a lifecycle state
	StateChanged(state types.State)
	// Countdown is called once per second of the chaos duration in verbose mode
	Countdown(remaining time.Duration)
	// CountdownDone is called when the countdown reached zero
	CountdownDone()
}

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(question string) bool
}

// Nop ignores every notification
type Nop struct{}

func (Nop) StateChanged(types.State) {}
func (Nop) Countdown(time.Duration)  {}
func (Nop) CountdownDone()           {}

// Funcs adapts plain functions to a Notifier, nil fields are ignored
type Funcs struct {
	OnState     func(types.State)
	OnCountdown func(time.Duration)
	OnDone      func()
}

func (f Funcs) StateChanged(state types.State) {
	if f.OnState != nil {
		f.OnState(state)
	}
}

func (f Funcs) Countdown(remaining time.Duration) {
	if f.OnCountdown != nil {
		f.OnCountdown(remaining)
	}
}

func (f Funcs) CountdownDone() {
	if f.OnDone != nil {
		f.OnDone()
	}
}
