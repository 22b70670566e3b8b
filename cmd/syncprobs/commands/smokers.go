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

var ErrSmokersFailed = errors.New("smokers scenario failed")

const smokersExample = `  syncprobs smokers
  # Run one hundred rounds
  syncprobs smokers --rounds 100

  # Run from a configuration file, without the TUI
  syncprobs smokers --config scenarios.yaml --quiet
`

// NewSmokersCmd returns the cigarette smokers command.
func NewSmokersCmd(args *RootArgs) *cobra.Command {
	rounds := new(int)
	smokeTime := new(time.Duration)
	seed := new(uint64)
	configPath := new(string)
	quiet := new(bool)

	cmd := &cobra.Command{
		Use:     "smokers",
		Short:   "Run the cigarette smokers scenario",
		Example: smokersExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := scenario.SmokersConfig{
				Rounds:    *rounds,
				SmokeTime: *smokeTime,
				Seed:      *seed,
			}

			if *configPath != "" {
				c, err := scenario.LoadConfig(*configPath)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrSmokersFailed, err)
				}

				if c.Smokers != nil {
					cfg = *c.Smokers
				}
			}

			table, err := scenario.NewSmokersTable(cfg,
				scenario.WithSmokersTracer(tracing.NewLoggingTracer(slog.Default())),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSmokersFailed, err)
			}

			err = runScenario(cmd, args, *quiet, "smokers", table)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSmokersFailed, err)
			}

			report := table.Report()
			cmd.Printf("Completed %d rounds.\n", report.Rounds)

			for _, ingredient := range []scenario.Ingredient{scenario.Tobacco, scenario.Paper, scenario.Matches} {
				cmd.Printf("  %s smoker: %d\n", ingredient, report.SmokedBy[ingredient])
			}

			return nil
		},
		SilenceUsage: true,
	}

	defaults := scenario.DefaultSmokersConfig()

	cmd.Flags().IntVar(rounds, "rounds", defaults.Rounds, "Number of rounds the agent plays")
	cmd.Flags().DurationVar(smokeTime, "smoke_time", defaults.SmokeTime, "Duration of one smoke")
	cmd.Flags().Uint64Var(seed, "seed", defaults.Seed, "Seed for the agent's ingredient choices")
	cmd.Flags().StringVar(configPath, "config", "", "Read the scenario configuration from this YAML file")
	cmd.Flags().BoolVarP(quiet, "quiet", "q", false, "Run in quiet mode")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))

	return cmd
}
