// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"sync"

	"github.com/roach88/reforge/internal/dsl"
)

// Call records one invocation seen by a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner implements dsl.Runner with scripted results, so orchestration
// tests never spawn a real process.
//
// Results are consumed in invocation order; once the script is exhausted
// every further call succeeds with empty output. The zero value is usable
// and reports success for everything.
//
// Thread-safety: methods are safe for concurrent use, though the
// orchestrator itself is strictly sequential.
type FakeRunner struct {
	mu sync.Mutex

	// Script holds the results to return, in order.
	Script []dsl.Result

	// Calls records every invocation, in order.
	Calls []Call
}

// Run pops the next scripted result.
func (f *FakeRunner) Run(_ context.Context, name string, args []string) dsl.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string(nil), args...)})

	if len(f.Script) == 0 {
		return dsl.Result{}
	}
	next := f.Script[0]
	f.Script = f.Script[1:]
	return next
}

// CallCount returns how many invocations have been seen.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
