package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Flogas0833/synchronization-problems/pkg/scenario"
	"github.com/Flogas0833/synchronization-problems/pkg/tracing"
)

var ErrRiverFailed = errors.New("river scenario failed")

const riverExample = `  syncprobs river
  # Run with travelers on both banks
  syncprobs river --from_left 9 --from_right 6

  # Run from a configuration file, without the TUI
  syncprobs river --config scenarios.yaml --quiet
`

// NewRiverCmd returns the river crossing command.
func NewRiverCmd(args *RootArgs) *cobra.Command {
	fromLeft := new(int)
	fromRight := new(int)
	arrivalSpread := new(time.Duration)
	seed := new(uint64)
	configPath := new(string)
	quiet := new(bool)

	cmd := &cobra.Command{
		Use:     "river",
		Short:   "Run the river crossing scenario",
		Example: riverExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := scenario.RiverConfig{
				FromLeft:      *fromLeft,
				FromRight:     *fromRight,
				ArrivalSpread: *arrivalSpread,
				Seed:          *seed,
			}

			if *configPath != "" {
				c, err := scenario.LoadConfig(*configPath)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrRiverFailed, err)
				}

				if c.River != nil {
					cfg = *c.River
				}
			}

			crossing, err := scenario.NewRiverCrossing(cfg,
				scenario.WithRiverTracer(tracing.NewLoggingTracer(slog.Default())),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrRiverFailed, err)
			}

			err = runScenario(cmd, args, *quiet, "river", crossing)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrRiverFailed, err)
			}

			report := crossing.Report()
			cmd.Printf("Completed %d crossings, at most %d aboard.\n", report.Trips, report.MaxBoarded)

			return nil
		},
		SilenceUsage: true,
	}

	defaults := scenario.DefaultRiverConfig()

	cmd.Flags().IntVar(fromLeft, "from_left", defaults.FromLeft, "Travelers starting on the left bank")
	cmd.Flags().IntVar(fromRight, "from_right", defaults.FromRight, "Travelers starting on the right bank")
	cmd.Flags().DurationVar(arrivalSpread, "arrival_spread", defaults.ArrivalSpread,
		"Maximum random delay before a traveler arrives")
	cmd.Flags().Uint64Var(seed, "seed", defaults.Seed, "Seed for random choices")
	cmd.Flags().StringVar(configPath, "config", "", "Read the scenario configuration from this YAML file")
	cmd.Flags().BoolVarP(quiet, "quiet", "q", false, "Run in quiet mode")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))

	return cmd
}
