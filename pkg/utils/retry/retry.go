package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
)

// Action defines the prototype of action function, function as a value
type Action func(attempt uint) error

// Model defines the schema, contains all the attributes need for retry
type Model struct {
	retry    uint
	waitTime time.Duration
}

// Times is used to define the retry count
// it will run if the instance of model is not present before
func Times(retry uint) *Model {
	model := Model{}
	return model.Times(retry)
}

// Times is used to define the retry count
// it will run if the instance of model is already present
func (model *Model) Times(retry uint) *Model {
	model.retry = retry
	return model
}

// Wait is used to define the wait duration after each iteration of retry
func (model *Model) Wait(waitTime time.Duration) *Model {
	model.waitTime = waitTime
	return model
}


// Try runs the action until it succeeds or the retry count is exhausted,
// waiting between failed attempts. The wait is abandoned when ctx is done.
func (model Model) Try(ctx context.Context, action Action) error {
	if action == nil {
		return fmt.Errorf("no action specified")
	}

	var err error
	for attempt := uint(0); attempt < model.retry; attempt++ {
		if err = action(attempt); err == nil {
			return nil
		}
		if attempt+1 == model.retry || model.waitTime <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return cerrors.Error{ErrorCode: cerrors.ErrorTypeInterrupted, Reason: fmt.Sprintf("retry abandoned after %d attempt(s): %v", attempt+1, err)}
		case <-time.After(model.waitTime):
		}
	}
	return err
}
