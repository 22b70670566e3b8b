package simtui

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Flogas0833/synchronization-problems/pkg/log"
)

// Runner is a scenario that can be executed once and observed through
// broadcast events.
type Runner interface {
	Run() error
	Subscribe(f func(any))
}

// SimTUI runs a [Runner] behind a [RunModel], forwarding the runner's events
// and the default logger's output into the program.
type SimTUI struct {
	runner Runner
	p      *tea.Program
	w      io.Writer
	title  string
}

// NewSimTUI wraps runner in a TUI writing to w. The default [slog] logger is
// redirected into the program so log lines interleave with the display
// instead of corrupting it.
func NewSimTUI(w io.Writer, lvl slog.Level, title string, runner Runner) *SimTUI {
	c := &SimTUI{
		runner: runner,
		w:      w,
		title:  title,
	}

	c.runner.Subscribe(c.broadcastEvent)

	slog.SetDefault(
		slog.New(log.CreateHandler(c, lvl, log.FormatText)),
	)

	return c
}

func (c *SimTUI) broadcastEvent(evt any) {
	if c.p != nil {
		c.p.Send(evt)
	}
}

func (c *SimTUI) Write(p []byte) (int, error) {
	c.broadcastEvent(teaMsgWriteLog(string(p)))

	return len(p), nil
}

// Run executes the runner under the TUI and returns the runner's error once
// both the program and the run have finished.
func (c *SimTUI) Run() error {
	c.p = tea.NewProgram(NewRunModel(c.title), tea.WithOutput(c.w))

	done := make(chan error, 1)

	go func() {
		done <- c.runner.Run()
	}()

	if _, err := c.p.Run(); err != nil {
		return fmt.Errorf("failed to launch tui: %w", err)
	}

	return <-done
}
