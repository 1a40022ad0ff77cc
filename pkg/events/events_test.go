package events

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "  yes  \n", want: true},
		{input: "n\n", want: false},
		{input: "sure\n", want: false},
		{input: "", want: false},
		{input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompt(strings.NewReader(tt.input), &out)
			assert.Equal(t, tt.want, p.Confirm("Do you want to clean up the chaos experiments?"))
			assert.Contains(t, out.String(), "Do you want to clean up the chaos experiments? (y/n): ")
		})
	}
}

func TestConsoleCountdownWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out)

	c.Countdown(3 * time.Second)
	c.Countdown(2 * time.Second)
	c.CountdownDone()

	assert.Equal(t, "Time remaining: 3 seconds\nTime remaining: 2 seconds\nExperiments completed!\n", out.String())
}

func TestFuncs(t *testing.T) {
	var states []types.State
	ticks := 0
	n := Funcs{
		OnState:     func(s types.State) { states = append(states, s) },
		OnCountdown: func(time.Duration) { ticks++ },
	}

	n.StateChanged(types.StateInit)
	n.Countdown(time.Second)
	n.CountdownDone()

	assert.Equal(t, []types.State{types.StateInit}, states)
	assert.Equal(t, 1, ticks)
}
