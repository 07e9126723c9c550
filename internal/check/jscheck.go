// Copyright (c) 2024 The treereduce developers

package check

import (
	"context"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
)

// JSCheck is an in-process alternative to CmdCheck: the interestingness
// predicate is a small JavaScript function, `function interesting(text)`,
// evaluated in an embedded goja VM instead of spawning a subprocess. Useful
// for cheap checks during fuzzing and tests where subprocess overhead would
// dominate.
type JSCheck struct {
	program *goja.Program
}

// NewJSCheck compiles source, which must define a top-level function named
// `interesting` taking the candidate text as a string and returning a
// truthy/falsy value.
func NewJSCheck(source string) (*JSCheck, error) {
	prog, err := goja.Compile("interesting.js", source, true)
	if err != nil {
		return nil, errors.Wrap(err, "jscheck: compile predicate")
	}
	return &JSCheck{program: prog}, nil
}

type jsCheckState struct {
	result bool
}

// Start runs the predicate synchronously and stashes its result; goja VMs
// are not safe for concurrent use, so each Start gets a fresh one.
func (c *JSCheck) Start(ctx context.Context, stdin []byte) (State, error) {
	vm := goja.New()
	if _, err := vm.RunProgram(c.program); err != nil {
		return nil, errors.Wrap(err, "jscheck: load predicate")
	}
	fn, ok := goja.AssertFunction(vm.Get("interesting"))
	if !ok {
		return nil, errors.New("jscheck: predicate must define function interesting(text)")
	}
	v, err := fn(goja.Undefined(), vm.ToValue(string(stdin)))
	if err != nil {
		return nil, errors.Wrap(err, "jscheck: run predicate")
	}
	return &jsCheckState{result: v.ToBoolean()}, nil
}

// TryWait always reports done=true: JSCheck runs its predicate
// synchronously in Start.
func (c *JSCheck) TryWait(state State) (bool, bool, error) {
	st := state.(*jsCheckState)
	return st.result, true, nil
}

// Wait returns the result computed by Start.
func (c *JSCheck) Wait(state State) (bool, error) {
	st := state.(*jsCheckState)
	return st.result, nil
}

// Cancel is a no-op: JSCheck has no in-flight process or temp files.
func (c *JSCheck) Cancel(state State) error {
	return nil
}
