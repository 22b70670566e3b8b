package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Flogas0833/synchronization-problems/pkg/log"
	"github.com/Flogas0833/synchronization-problems/pkg/simtui"
)

var (
	ErrArgument       = errors.New("argument error")
	ErrScenarioFailed = errors.New("scenario failed")
)

// runScenario executes runner either under the TUI or plainly, depending on
// quiet mode and whether stdout is a terminal.
func runScenario(cmd *cobra.Command, args *RootArgs, quiet bool, title string, runner simtui.Runner) error {
	if quiet || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runner.Run()
	}

	lvl, err := log.GetLevel(args.GetLogLevel())
	if err != nil {
		// Should not be possible due to root's PersistentPreRunE.
		return fmt.Errorf("%w: %w", ErrArgument, err)
	}

	return simtui.NewSimTUI(cmd.OutOrStdout(), lvl, title, runner).Run()
}
