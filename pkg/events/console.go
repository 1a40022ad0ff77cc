package events

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/litmuschaos/chaos-suite/pkg/log"
	"github.com/litmuschaos/chaos-suite/pkg/types"
	"golang.org/x/term"
)

// Console renders notifications on a terminal
type Console struct {
	out         io.Writer
	interactive bool
}

// NewConsole returns a Console writing to out. The countdown rewrites a single
// line when out is a terminal and prints one line per tick otherwise.
func NewConsole(out io.Writer) *Console {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &Console{out: out, interactive: interactive}
}

func (c *Console) StateChanged(state types.State) {
	log.Debugf("[Suite]: entering %v", state)
}

func (c *Console) Countdown(remaining time.Duration) {
	if c.interactive {
		fmt.Fprintf(c.out, "\rTime remaining: %d seconds", int(remaining.Seconds()))
		return
	}
	fmt.Fprintf(c.out, "Time remaining: %d seconds\n", int(remaining.Seconds()))
}

func (c *Console) CountdownDone() {
	if c.interactive {
		fmt.Fprint(c.out, "\rExperiments completed!                \n")
		return
	}
	fmt.Fprintln(c.out, "Experiments completed!")
}

// Prompt reads yes/no answers from an input stream
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt returns a Prompt reading answers from in and asking on out
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm returns true for "y" or "yes", case-insensitive. Anything else,
// including a closed input, is a no.
func (p *Prompt) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s (y/n): ", question)
	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
