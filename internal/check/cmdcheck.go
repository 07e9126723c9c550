// Copyright (c) 2024 The treereduce developers

package check

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// marker is the @@-prefixed placeholder token substituted with a temp-file
// path in the check command's argv (spec.md §4.5/§6).
const marker = "@@"

// CmdCheckConfig configures a CmdCheck.
type CmdCheckConfig struct {
	// Argv is the interestingness command: Argv[0] is the executable,
	// the rest are its arguments. At most one argument may begin with
	// "@@"; if present, it is replaced by a temp-file path at Start time
	// and the candidate bytes are written to that file instead of stdin.
	Argv []string

	ExitCodes           []int
	InterestingStdout   *regexp.Regexp
	InterestingStderr   *regexp.Regexp
	UninterestingStdout *regexp.Regexp
	UninterestingStderr *regexp.Regexp

	TempDir       string
	Timeout       time.Duration // zero means no timeout
	InheritStdout bool
	InheritStderr bool
}

// CmdCheck runs an external interestingness command per spec.md §4.5–§6.
type CmdCheck struct {
	cfg      CmdCheckConfig
	needFile bool
	nextTemp atomic.Uint64
}

// NewCmdCheck builds a CmdCheck from cfg. It is an error for cfg.Argv to be
// empty.
func NewCmdCheck(cfg CmdCheckConfig) (*CmdCheck, error) {
	if len(cfg.Argv) == 0 {
		return nil, errors.New("check: empty interestingness command")
	}
	if len(cfg.ExitCodes) == 0 {
		cfg.ExitCodes = []int{0}
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	needFile := false
	for _, a := range cfg.Argv[1:] {
		if strings.HasPrefix(a, marker) {
			needFile = true
			break
		}
	}
	return &CmdCheck{cfg: cfg, needFile: needFile}, nil
}

// cmdCheckState is the process-in-flight state returned by Start.
type cmdCheckState struct {
	cmd      *exec.Cmd
	tempPath string
	done     chan error
	result   atomic.Value // bool
	timer    *time.Timer
	cancel   context.CancelFunc
}

func (c *CmdCheck) tempFile(marker string) (string, error) {
	suffix := strings.TrimPrefix(marker, "@@")
	f, err := os.CreateTemp(c.cfg.TempDir, "treereduce-tmp-*"+suffix)
	if err != nil {
		return "", errors.Wrap(err, "check: create temp file")
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "check: close temp file")
	}
	return path, nil
}

// argsWithFile substitutes the @@ marker argument with a fresh temp-file
// path, returning the rendered argv and the temp path (empty if none
// needed).
func (c *CmdCheck) argsWithFile() ([]string, string, error) {
	args := make([]string, len(c.cfg.Argv)-1)
	copy(args, c.cfg.Argv[1:])
	tempPath := ""
	for i, a := range args {
		if strings.HasPrefix(a, marker) {
			p, err := c.tempFile(a)
			if err != nil {
				return nil, "", err
			}
			tempPath = p
			args[i] = p
		}
	}
	return args, tempPath, nil
}

// Start launches the probe over stdin bytes (spec.md §4.5).
func (c *CmdCheck) Start(ctx context.Context, stdin []byte) (State, error) {
	runCtx, cancel := context.WithCancel(ctx)

	var args []string
	var tempPath string
	var err error
	if c.needFile {
		args, tempPath, err = c.argsWithFile()
	} else {
		args = c.cfg.Argv[1:]
	}
	if err != nil {
		cancel()
		return nil, err
	}

	cmd := exec.CommandContext(runCtx, c.cfg.Argv[0], args...)

	if tempPath != "" {
		if err := os.WriteFile(tempPath, stdin, 0o600); err != nil {
			cancel()
			return nil, errors.Wrap(err, "check: write temp file")
		}
	} else {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	needStdout := c.cfg.InheritStdout || c.cfg.InterestingStdout != nil || c.cfg.UninterestingStdout != nil
	needStderr := c.cfg.InheritStderr || c.cfg.InterestingStderr != nil || c.cfg.UninterestingStderr != nil

	switch {
	case c.cfg.InheritStdout:
		cmd.Stdout = io.MultiWriter(os.Stdout, &stdoutBuf)
	case needStdout:
		cmd.Stdout = &stdoutBuf
	default:
		cmd.Stdout = nil
	}
	switch {
	case c.cfg.InheritStderr:
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)
	case needStderr:
		cmd.Stderr = &stderrBuf
	default:
		cmd.Stderr = nil
	}

	if err := cmd.Start(); err != nil {
		cancel()
		if tempPath != "" {
			_ = os.Remove(tempPath)
		}
		return nil, errors.Wrap(err, "check: spawn interestingness command")
	}

	st := &cmdCheckState{cmd: cmd, tempPath: tempPath, done: make(chan error, 1), cancel: cancel}
	go func() {
		waitErr := cmd.Wait()
		// Store the result before signaling done, so a receiver that wakes
		// on the channel sees it. A probe torn down by Cancel (timeout or
		// context cancellation) records no result at all.
		if runCtx.Err() == nil {
			st.result.Store(c.isInteresting(cmd, stdoutBuf.Bytes(), stderrBuf.Bytes()))
		}
		st.done <- waitErr
	}()
	if c.cfg.Timeout > 0 {
		st.timer = time.AfterFunc(c.cfg.Timeout, func() {
			_ = c.Cancel(st)
		})
	}
	return st, nil
}

// TryWait performs a non-blocking poll.
func (c *CmdCheck) TryWait(state State) (bool, bool, error) {
	st := state.(*cmdCheckState)
	select {
	case err := <-st.done:
		st.done <- err // put back for Wait/Cancel idempotence
		if v := st.result.Load(); v != nil {
			return v.(bool), true, nil
		}
		return false, true, nil
	default:
		return false, false, nil
	}
}

// Wait blocks for the probe to finish, or for the configured timeout,
// whichever comes first. A timeout yields (false, nil): not an error,
// per spec.md §7.
func (c *CmdCheck) Wait(state State) (bool, error) {
	st := state.(*cmdCheckState)
	defer func() {
		if st.timer != nil {
			st.timer.Stop()
		}
		st.cancel()
		c.cleanupTemp(st)
	}()
	<-st.done
	if v := st.result.Load(); v != nil {
		return v.(bool), nil
	}
	// Process was killed by our own timeout/cancel before the result was
	// recorded: treat as not interesting.
	return false, nil
}

// Cancel kills the in-flight probe and releases its resources.
func (c *CmdCheck) Cancel(state State) error {
	st := state.(*cmdCheckState)
	st.cancel()
	if st.cmd.Process != nil {
		_ = st.cmd.Process.Kill()
	}
	c.cleanupTemp(st)
	return nil
}

func (c *CmdCheck) cleanupTemp(st *cmdCheckState) {
	if st.tempPath != "" {
		_ = os.Remove(st.tempPath)
		st.tempPath = ""
	}
}

// isInteresting implements spec.md §4.5's boolean formula.
func (c *CmdCheck) isInteresting(cmd *exec.Cmd, stdout, stderr []byte) bool {
	code := exitCode(cmd)
	codeMatch := false
	for _, ec := range c.cfg.ExitCodes {
		if ec == code {
			codeMatch = true
			break
		}
	}

	outMatch := c.cfg.InterestingStdout != nil && c.cfg.InterestingStdout.Match(stdout)
	errMatch := c.cfg.InterestingStderr != nil && c.cfg.InterestingStderr.Match(stderr)

	interesting := codeMatch || outMatch || errMatch
	if !interesting {
		return false
	}
	if c.cfg.UninterestingStdout != nil && c.cfg.UninterestingStdout.Match(stdout) {
		return false
	}
	if c.cfg.UninterestingStderr != nil && c.cfg.UninterestingStderr.Match(stderr) {
		return false
	}
	return true
}

// exitCode normalizes a process's termination to an exit code, folding a
// killing signal n into 128+n per spec.md §4.5.
func exitCode(cmd *exec.Cmd) int {
	state := cmd.ProcessState
	if state == nil {
		return -1
	}
	if status, ok := state.Sys().(syscall.WaitStatus); ok {
		if status.Signaled() {
			return 128 + int(status.Signal())
		}
	}
	return state.ExitCode()
}
