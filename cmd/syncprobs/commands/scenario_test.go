package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/cmd/syncprobs/commands"
	"github.com/Flogas0833/synchronization-problems/pkg/scenario"
)

func TestBarberCmd(t *testing.T) {
	stdout, stderr, err := executeCommand(t,
		"barber", "--quiet",
		"--chairs", "3",
		"--customers", "8",
		"--cut_time", "1ms",
		"--arrival_spread", "5ms",
	)
	require.NoError(t, err)
	assert.Empty(t, stderr, "stderr should be empty")
	assert.Regexp(t, `Served \d+ customers, turned away \d+\.`, stdout)
}

func TestBarberCmd_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand(t, "barber", "--quiet", "--chairs", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrBarberFailed)
	assert.ErrorIs(t, err, scenario.ErrInvalidConfig)
}

func TestSmokersCmd(t *testing.T) {
	stdout, stderr, err := executeCommand(t,
		"smokers", "--quiet",
		"--rounds", "5",
		"--smoke_time", "1ms",
	)
	require.NoError(t, err)
	assert.Empty(t, stderr, "stderr should be empty")
	assert.Contains(t, stdout, "Completed 5 rounds.")
	assert.Contains(t, stdout, "tobacco smoker:")
}

func TestRiverCmd(t *testing.T) {
	stdout, stderr, err := executeCommand(t,
		"river", "--quiet",
		"--from_left", "6",
		"--from_right", "3",
		"--arrival_spread", "5ms",
	)
	require.NoError(t, err)
	assert.Empty(t, stderr, "stderr should be empty")
	assert.Contains(t, stdout, "Completed 3 crossings")
}

func TestRiverCmd_InfeasibleCounts(t *testing.T) {
	_, _, err := executeCommand(t, "river", "--quiet", "--from_left", "4", "--from_right", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrRiverFailed)
	assert.ErrorIs(t, err, scenario.ErrInvalidConfig)
}

func TestScenarioCmd_ConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scenarios.yaml")

	data := `
smokers:
  rounds: 3
  smoke_time: 1ms
  seed: 4
`
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0o600))

	stdout, _, err := executeCommand(t, "smokers", "--quiet", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Completed 3 rounds.")
}

func TestStackCmd(t *testing.T) {
	tcs := map[string]struct {
		variant       string
		wantCorrupted string
	}{
		"naive variant corrupts": {
			variant:       "naive",
			wantCorrupted: "3 corrupted.",
		},
		"tagged variant survives": {
			variant:       "tagged",
			wantCorrupted: "0 corrupted.",
		},
		"locked variant survives": {
			variant:       "locked",
			wantCorrupted: "0 corrupted.",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, err := executeCommand(t,
				"stack", "--variant", tc.variant, "--trials", "3",
			)
			require.NoError(t, err)
			assert.Empty(t, stderr, "stderr should be empty")
			assert.Contains(t, stdout, "Ran 3 trials of the "+tc.variant+" variant")
			assert.Contains(t, stdout, tc.wantCorrupted)
		})
	}
}

func TestStackCmd_InvalidArgs(t *testing.T) {
	_, _, err := executeCommand(t, "stack", "--variant", "hopeful")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrInvalidArgument)

	_, _, err = executeCommand(t, "stack", "--trials", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrInvalidArgument)
}
