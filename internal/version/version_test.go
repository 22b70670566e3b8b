package version_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Flogas0833/synchronization-problems/internal/version"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, version.Revision)
}
