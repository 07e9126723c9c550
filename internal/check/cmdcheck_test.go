// Copyright (c) 2024 The treereduce developers

package check

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdCheckDefaultExitCodeZeroIsInteresting(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{Argv: []string{"true"}})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCmdCheckNonZeroExitIsNotInteresting(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{Argv: []string{"false"}})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCmdCheckCustomExitCodes(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{
		Argv:      []string{"sh", "-c", "exit 7"},
		ExitCodes: []int{7},
	})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCmdCheckReadsStdinByDefault(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{
		Argv:              []string{"sh", "-c", "grep -q needle"},
		InterestingStdout: nil,
	})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, []byte("a needle in a haystack"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCmdCheckInterestingStdoutPattern(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{
		Argv:              []string{"sh", "-c", "echo BOOM; exit 1"},
		InterestingStdout: regexp.MustCompile("BOOM"),
	})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCmdCheckUninterestingStdoutOverridesMatch(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{
		Argv:                []string{"sh", "-c", "echo BOOM suppressed"},
		InterestingStdout:   regexp.MustCompile("BOOM"),
		UninterestingStdout: regexp.MustCompile("suppressed"),
	})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCmdCheckMarkerSubstitutesTempFile(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{
		Argv: []string{"grep", "-q", "needle", "@@"},
	})
	require.NoError(t, err)

	ok, err := Interesting(context.Background(), c, []byte("a needle in a haystack"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCmdCheckTimeoutYieldsFalseNotError(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{
		Argv:    []string{"sleep", "5"},
		Timeout: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	ok, err := Interesting(context.Background(), c, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestCmdCheckRejectsEmptyArgv(t *testing.T) {
	_, err := NewCmdCheck(CmdCheckConfig{})
	assert.Error(t, err)
}

func TestCmdCheckCancelKillsProcessAndCleansTempFile(t *testing.T) {
	c, err := NewCmdCheck(CmdCheckConfig{Argv: []string{"sleep", "5", "@@"}})
	require.NoError(t, err)

	state, err := c.Start(context.Background(), []byte("data"))
	require.NoError(t, err)

	st := state.(*cmdCheckState)
	tempPath := st.tempPath
	require.NotEmpty(t, tempPath)
	_, statErr := os.Stat(tempPath)
	require.NoError(t, statErr)

	require.NoError(t, c.Cancel(state))

	_, statErr = os.Stat(tempPath)
	assert.True(t, os.IsNotExist(statErr))
}
