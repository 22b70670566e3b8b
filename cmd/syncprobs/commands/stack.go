package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Flogas0833/synchronization-problems/pkg/lockfree"
)

var (
	ErrStackFailed     = errors.New("stack demonstration failed")
	ErrInvalidArgument = errors.New("invalid argument")
)

const stackExample = `  # Corrupt a naive stack through node reuse
  syncprobs stack --variant naive

  # Show that version tags defeat the same interleaving
  syncprobs stack --variant tagged --trials 100
`

// NewStackCmd returns the stack command, which replays the node-reuse
// interleaving against one of the stack variants and reports whether the
// structure survived.
func NewStackCmd(_ *RootArgs) *cobra.Command {
	variant := new(string)
	trials := new(int)

	cmd := &cobra.Command{
		Use:     "stack",
		Short:   "Replay the node-reuse interleaving against a stack variant",
		Example: stackExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if *trials < 1 {
				return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalidArgument, *trials)
			}

			corrupted := 0

			var lastErr error

			for range *trials {
				gate := lockfree.NewScheduleGate()

				s, serialized, err := newStackVariant(*variant, gate)
				if err != nil {
					return err
				}

				res := lockfree.RunRecycleSchedule(s, gate, serialized)
				if res.ValidateErr != nil {
					corrupted++
					lastErr = res.ValidateErr
				}
			}

			cmd.Printf("Ran %d trials of the %s variant: %d corrupted.\n", *trials, *variant, corrupted)

			if lastErr != nil {
				cmd.Printf("Last corruption: %v\n", lastErr)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(variant, "variant", "V", "naive", "Stack variant to test (naive, tagged, locked)")
	cmd.Flags().IntVarP(trials, "trials", "n", 10, "Number of trials to run")

	return cmd
}

//nolint:ireturn // Multiple concrete types.
func newStackVariant(variant string, gate *lockfree.ScheduleGate) (lockfree.Stack[int], bool, error) {
	switch variant {
	case "naive":
		return lockfree.NewReuseStack[int](lockfree.WithBeforeSwap(gate.Hook)), false, nil
	case "tagged":
		return lockfree.NewTaggedStack[int](lockfree.WithBeforeSwap(gate.Hook)), false, nil
	case "locked":
		return lockfree.NewLockedStack[int](lockfree.WithBeforeSwap(gate.Hook)), true, nil
	default:
		return nil, false, fmt.Errorf("%w: unknown stack variant %q", ErrInvalidArgument, variant)
	}
}
