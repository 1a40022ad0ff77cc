package common

import (
	"context"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
)

// WaitForDuration waits for the given duration, or until ctx is done
func WaitForDuration(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeInterrupted, Reason: "wait interrupted: " + ctx.Err().Error()}
	case <-timer.C:
		return nil
	}
}

// Countdown calls onTick with the number of remaining ticks, then waits one interval,
// until no tick remains or ctx is done
func Countdown(ctx context.Context, ticks int, interval time.Duration, onTick func(remaining int)) error {
	for remaining := ticks; remaining > 0; remaining-- {
		onTick(remaining)
		if err := WaitForDuration(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}
