// Package testutil provides shared fakes and fixtures for package tests.
package testutil

import (
	"context"
	"os"
	"sync"
)

// Call records one invocation handed to a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner implements tools.Runner for tests. It records every call and
// optionally delegates to OnRun to simulate tool behavior.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call

	OnRun func(ctx context.Context, name string, args ...string) error
}

// Run implements the tools.Runner interface.
func (r *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Name: name, Args: append([]string(nil), args...)})
	r.mu.Unlock()

	if r.OnRun != nil {
		return r.OnRun(ctx, name, args...)
	}
	return nil
}

// Calls returns a copy of all recorded calls.
func (r *FakeRunner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// HasArg reports whether the call contains the given argument.
func (c Call) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

// ArgAfter returns the argument following the given flag, or "".
func (c Call) ArgAfter(flag string) string {
	for i, a := range c.Args {
		if a == flag && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
	}
	return ""
}

// REMLWritingRunner returns a FakeRunner that simulates the estimation
// tool: whenever it sees a `--reml <prefix>` invocation it writes a
// plausible `<prefix>.reml` result file, so aggregation-stage code under
// test has real files to parse.
func REMLWritingRunner() *FakeRunner {
	r := &FakeRunner{}
	r.OnRun = func(ctx context.Context, name string, args ...string) error {
		for i, a := range args {
			if a == "--reml" && i+1 < len(args) {
				return os.WriteFile(args[i+1]+".reml", []byte(SampleREMLResult), 0o644)
			}
		}
		return nil
	}
	return r
}

// SampleREMLResult is a minimal result file in the estimation tool's
// output format.
const SampleREMLResult = `Num_Kinships 1
Converged YES
Component Heritability SE Size Mega_Intensity SE
Her_K1 0.4567 0.0456 1000 0.45 0.04
Her_All 0.4567 0.0456 1000 0.45 0.04
`
