package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/cerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimesWait(t *testing.T) {
	model := Times(5).Wait(2 * time.Second)

	assert.Equal(t, uint(5), model.retry)
	assert.Equal(t, 2*time.Second, model.waitTime)
}

func TestTry(t *testing.T) {
	tests := []struct {
		name      string
		failUntil uint
		retries   uint
		wantCalls int
		wantErr   bool
	}{
		{name: "succeeds immediately", failUntil: 0, retries: 3, wantCalls: 1},
		{name: "fails then succeeds", failUntil: 1, retries: 3, wantCalls: 2},
		{name: "always fails", failUntil: 10, retries: 3, wantCalls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Times(tt.retries).Wait(time.Millisecond).Try(context.Background(), func(attempt uint) error {
				calls++
				if attempt < tt.failUntil {
					return errors.New("fail")
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestTry_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Times(5).Wait(time.Hour).Try(ctx, func(attempt uint) error {
		calls++
		return errors.New("fail")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, cerrors.IsType(err, cerrors.ErrorTypeInterrupted))
}

func TestTry_NilAction(t *testing.T) {
	assert.Error(t, Times(2).Try(context.Background(), nil))
}
