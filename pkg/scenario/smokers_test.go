package scenario_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/pkg/scenario"
)

func TestSmokersTable_EveryRoundSmokedByExactlyOne(t *testing.T) {
	t.Parallel()

	tests := map[string]scenario.SmokersConfig{
		"defaults": scenario.DefaultSmokersConfig(),
		"many rounds": {
			Rounds: 100,
			Seed:   42,
		},
		"single round": {
			Rounds: 1,
			Seed:   5,
		},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			table, err := scenario.NewSmokersTable(cfg)
			require.NoError(t, err)

			rec := &eventRecorder{}
			table.Subscribe(rec.record)

			runWithDeadline(t, table.Run)

			report := table.Report()
			assert.Equal(t, cfg.Rounds, report.Rounds)
			assert.NotEmpty(t, report.RunID)

			total := 0
			for _, n := range report.SmokedBy {
				total += n
			}
			assert.Equal(t, cfg.Rounds, total, "every round is smoked by exactly one smoker")

			// The smoker signaled each round is the one holding the missing
			// ingredient.
			smokedRounds := map[int]scenario.Ingredient{}
			placedRounds := map[int]scenario.Ingredient{}

			for _, evt := range rec.snapshot() {
				switch evt := evt.(type) {
				case scenario.EventIngredientsPlaced:
					placedRounds[evt.Round] = evt.Missing
				case scenario.EventSmokerSmoked:
					smokedRounds[evt.Round] = evt.Smoker
				}
			}

			require.Len(t, smokedRounds, cfg.Rounds)
			for round, smoker := range smokedRounds {
				assert.Equal(t, placedRounds[round], smoker,
					"round %d smoked by %s, but %s was signaled", round, smoker, placedRounds[round])
			}
		})
	}
}

func TestSmokersTable_ReproducibleWithSeed(t *testing.T) {
	t.Parallel()

	cfg := scenario.SmokersConfig{Rounds: 30, Seed: 99, SmokeTime: time.Microsecond}

	runOnce := func() map[scenario.Ingredient]int {
		table, err := scenario.NewSmokersTable(cfg)
		require.NoError(t, err)

		runWithDeadline(t, table.Run)

		return table.Report().SmokedBy
	}

	assert.Equal(t, runOnce(), runOnce(), "identical seeds must produce identical rounds")
}

func TestNewSmokersTable_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := scenario.NewSmokersTable(scenario.SmokersConfig{Rounds: 0})
	require.ErrorIs(t, err, scenario.ErrInvalidConfig)
}
