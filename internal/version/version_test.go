package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFull verifies the human-readable version string contains all build metadata.
func TestFull(t *testing.T) {
	t.Parallel()

	full := Full()
	require.Contains(t, full, Version)
	require.Contains(t, full, Commit)
	require.Contains(t, full, BuildTime)
}

// TestEnsureRuntime_Gate verifies the comparison against the minimum version,
// including development toolchains that carry no comparable version.
func TestEnsureRuntime_Gate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		current string
		minimum string
		wantErr bool
	}{
		{name: "newer passes", current: "go1.25.0", minimum: "1.22", wantErr: false},
		{name: "equal passes", current: "go1.22", minimum: "1.22", wantErr: false},
		{name: "older fails", current: "go1.21.5", minimum: "1.22", wantErr: true},
		{name: "devel toolchain passes", current: "devel +abcdef linux/amd64", minimum: "1.22", wantErr: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ensureRuntime(tc.current, tc.minimum)
			if tc.wantErr {
				require.ErrorIs(t, err, errRuntimeTooOld)
				return
			}

			require.NoError(t, err)
		})
	}
}

// TestEnsureRuntime_CurrentToolchain ensures the real gate accepts the toolchain running the tests.
func TestEnsureRuntime_CurrentToolchain(t *testing.T) {
	t.Parallel()

	require.NoError(t, EnsureRuntime())
}
