// Copyright (c) 2024 The treereduce developers

// Package check defines the interestingness-probe capability the reducer
// consumes (spec.md §4.5) and its external-process implementation.
package check

import "context"

// Check starts, polls, and tears down an interestingness probe over
// candidate bytes. State is opaque to the reducer; only the Check
// implementation interprets it.
type Check interface {
	// Start launches the probe over stdin, returning implementation state.
	Start(ctx context.Context, stdin []byte) (State, error)

	// TryWait performs a non-blocking poll of state.
	TryWait(state State) (result bool, done bool, err error)

	// Wait blocks until state completes, or until the implementation's
	// configured timeout elapses — a timeout is reported as (false, nil),
	// per spec.md §7 (Timeout is not an error).
	Wait(state State) (bool, error)

	// Cancel kills the probe and releases any resources (temp files,
	// child processes) associated with state.
	Cancel(state State) error
}

// State is opaque probe-instance state returned by Start.
type State interface{}

// Interesting is the convenience composition Wait(Start(stdin)).
func Interesting(ctx context.Context, c Check, stdin []byte) (bool, error) {
	state, err := c.Start(ctx, stdin)
	if err != nil {
		return false, err
	}
	return c.Wait(state)
}
