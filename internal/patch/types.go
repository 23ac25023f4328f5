// Package patch models a patch (a named, ordered bundle of generated YAML
// specs) and provides spec discovery and entity-key detection.
//
// Ordering is the dependency mechanism between specs: later specs assume
// earlier ones have already been applied to the shared datasheet, so the
// spec list returned by Discover is fully deterministic and host
// independent (byte-lexicographic on slash-normalized relative paths, or an
// explicit patch.yaml manifest when present).
package patch

import "github.com/google/uuid"

// Spec is one discovered spec file within a patch.
type Spec struct {
	// Path is the absolute path to the spec file.
	Path string `json:"-"`

	// Rel is the path relative to the patch directory, slash-separated
	// regardless of host. Rel is the sort key and the identity used in
	// reports.
	Rel string `json:"path"`
}

// Run is the top-level unit of work: one invocation of the migration over
// one patch. Immutable once constructed.
type Run struct {
	ID       uuid.UUID `json:"run_id"`
	Patch    string    `json:"patch"`
	Dir      string    `json:"-"`
	Specs    []Spec    `json:"specs"`
	DryRun   bool      `json:"dry_run"`
	SkipSync bool      `json:"skip_sync"`
	Verbose  bool      `json:"-"`
}

// NewRun stamps a fresh run over the given specs.
func NewRun(patch, dir string, specs []Spec, dryRun, skipSync, verbose bool) *Run {
	return &Run{
		ID:       uuid.New(),
		Patch:    patch,
		Dir:      dir,
		Specs:    specs,
		DryRun:   dryRun,
		SkipSync: skipSync,
		Verbose:  verbose,
	}
}

// Outcome records the result of applying one spec. Created immediately
// after the external invocation returns and never mutated afterwards.
type Outcome struct {
	Spec Spec `json:"spec"`

	// Success reports whether the apply tool exited zero.
	Success bool `json:"success"`

	// Output is the trimmed tool output: stdout on success, the error
	// text (stderr, else stdout, else a placeholder) on failure.
	Output string `json:"output,omitempty"`

	// Entities holds the sorted top-level entity keys detected in the
	// spec. Detection happens before the apply call, so the keys are
	// recorded even when the apply fails: a partially applied spec may
	// already have mutated some of the named entities.
	Entities []string `json:"entities,omitempty"`
}
