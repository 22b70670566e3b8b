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

var ErrBarberFailed = errors.New("barber scenario failed")

const barberExample = `  syncprobs barber
  # Run with a crowded waiting room
  syncprobs barber --chairs 2 --customers 30

  # Run from a configuration file, without the TUI
  syncprobs barber --config scenarios.yaml --quiet
`

// NewBarberCmd returns the sleeping barber command.
func NewBarberCmd(args *RootArgs) *cobra.Command {
	chairs := new(int)
	customers := new(int)
	cutTime := new(time.Duration)
	arrivalSpread := new(time.Duration)
	seed := new(uint64)
	configPath := new(string)
	quiet := new(bool)

	cmd := &cobra.Command{
		Use:     "barber",
		Short:   "Run the sleeping barber scenario",
		Example: barberExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := scenario.BarberConfig{
				Chairs:        *chairs,
				Customers:     *customers,
				CutTime:       *cutTime,
				ArrivalSpread: *arrivalSpread,
				Seed:          *seed,
			}

			if *configPath != "" {
				c, err := scenario.LoadConfig(*configPath)
				if err != nil {
					return fmt.Errorf("%w: %w", ErrBarberFailed, err)
				}

				if c.Barber != nil {
					cfg = *c.Barber
				}
			}

			shop, err := scenario.NewBarberShop(cfg,
				scenario.WithBarberTracer(tracing.NewLoggingTracer(slog.Default())),
			)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBarberFailed, err)
			}

			err = runScenario(cmd, args, *quiet, "barber", shop)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBarberFailed, err)
			}

			report := shop.Report()
			cmd.Printf("Served %d customers, turned away %d.\n", report.Served, report.TurnedAway)

			return nil
		},
		SilenceUsage: true,
	}

	defaults := scenario.DefaultBarberConfig()

	cmd.Flags().IntVar(chairs, "chairs", defaults.Chairs, "Number of waiting-room chairs")
	cmd.Flags().IntVar(customers, "customers", defaults.Customers, "Number of customers to spawn")
	cmd.Flags().DurationVar(cutTime, "cut_time", defaults.CutTime, "Duration of one haircut")
	cmd.Flags().DurationVar(arrivalSpread, "arrival_spread", defaults.ArrivalSpread,
		"Maximum random delay before a customer arrives")
	cmd.Flags().Uint64Var(seed, "seed", defaults.Seed, "Seed for random choices")
	cmd.Flags().StringVar(configPath, "config", "", "Read the scenario configuration from this YAML file")
	cmd.Flags().BoolVarP(quiet, "quiet", "q", false, "Run in quiet mode")

	must(cmd.MarkFlagFilename("config", "yaml", "yml"))

	return cmd
}
