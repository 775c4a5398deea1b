package main

import (
	"errors"
	"testing"

	"github.com/fmueller/voxhold/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestIsUsageError(t *testing.T) {
	t.Parallel()

	require.True(t, isUsageError(errors.New("unknown command \"bad\" for \"voxhold\"")))
	require.True(t, isUsageError(errors.New("unknown flag: --oops")))
	require.True(t, isUsageError(errors.New("invalid argument \"soon\" for \"--timeout\" flag: time: invalid duration \"soon\"")))
	require.False(t, isUsageError(errors.New("no input device found")))
	require.False(t, isUsageError(errors.New("preflight checks failed: 2 critical")))
	require.False(t, isUsageError(nil))
}

func TestHelpTarget(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCmd()
	require.Equal(t, "voxhold", helpTarget(root, nil))
	require.Equal(t, "voxhold", helpTarget(root, []string{"--badflag"}))
	require.Equal(t, "voxhold", helpTarget(root, []string{"badcmd"}))
	require.Equal(t, "voxhold key-test", helpTarget(root, []string{"key-test"}))
	require.Equal(t, "voxhold key-test", helpTarget(root, []string{"key-test", "--timeout", "soon"}))
	require.Equal(t, "voxhold", helpTarget(nil, []string{"check"}))
}
