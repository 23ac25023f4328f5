package dsl

import (
	"context"
	"path/filepath"
)

// ClientConfig carries the resolved paths a client needs. All of them come
// from the reference file and the fixed project layout.
type ClientConfig struct {
	// CLI is the path to the dsl executable.
	CLI string

	// Root is the project root; spec paths are passed to the tool
	// relative to it and it is the working directory of every call.
	Root string

	// Datasheet is the server datasheet directory the apply subcommand
	// mutates.
	Datasheet string

	// SyncConfig is the sync configuration file the sync subcommand
	// reads.
	SyncConfig string
}

// Client issues apply and sync invocations against the dsl tool.
type Client struct {
	runner Runner
	cfg    ClientConfig
}

// NewClient builds a client over the given runner.
func NewClient(runner Runner, cfg ClientConfig) *Client {
	return &Client{runner: runner, cfg: cfg}
}

// Apply invokes `dsl apply <spec> --path <datasheet> [--dry-run]` for one
// spec file. The spec path is made project-relative when possible so the
// tool's output stays readable.
func (c *Client) Apply(ctx context.Context, specPath string, dryRun bool) Result {
	path := specPath
	if rel, err := filepath.Rel(c.cfg.Root, specPath); err == nil {
		path = rel
	}

	args := []string{"apply", path, "--path", c.cfg.Datasheet}
	if dryRun {
		args = append(args, "--dry-run")
	}
	return c.runner.Run(ctx, c.cfg.CLI, args)
}

// Sync invokes `dsl sync --config <sync-config> -e <target>... [--dry-run]`
// exactly once for the whole run. Callers pass the deduplicated, sorted
// target set so the invocation is deterministic.
func (c *Client) Sync(ctx context.Context, targets []string, dryRun bool) Result {
	args := []string{"sync", "--config", c.cfg.SyncConfig}
	for _, target := range targets {
		args = append(args, "-e", target)
	}
	if dryRun {
		args = append(args, "--dry-run")
	}
	return c.runner.Run(ctx, c.cfg.CLI, args)
}
