package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/reforge/internal/dsl"
	"github.com/roach88/reforge/internal/entity"
	"github.com/roach88/reforge/internal/migrate"
	"github.com/roach88/reforge/internal/patch"
	"github.com/roach88/reforge/internal/project"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Patch    string
	Root     string
	DryRun   bool
	SkipSync bool
	Timeout  time.Duration
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply --patch <name>",
		Short: "Apply a patch and sync affected entities",
		Long: `Apply every spec from a patch to the server datasheet, then sync the
affected entity types to the client tables.

Specs are applied in deterministic order (lexicographic by relative path,
or the order pinned by an optional patch.yaml manifest). A failed spec
does not stop the run; every failure is reported and the process exits
non-zero if any spec failed or the sync failed.

Example:
  reforge apply --patch 103-gear
  reforge apply --patch 103-gear --dry-run --verbose
  reforge apply --patch 103-gear --skip-sync`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,  // Don't print usage on errors
		SilenceErrors: true,  // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Patch, "patch", "", "patch folder name under reforged/specs/patches/ (required)")
	cmd.Flags().StringVar(&opts.Root, "root", "", "project root (default: current directory)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "pass --dry-run to dsl apply and dsl sync")
	cmd.Flags().BoolVar(&opts.SkipSync, "skip-sync", false, "apply specs only, skip client sync")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Minute, "per-invocation timeout for the dsl tool (0 = none)")
	_ = cmd.MarkFlagRequired("patch")

	return cmd
}

func runApply(opts *ApplyOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	root, err := resolveRoot(opts.Root)
	if err != nil {
		return preflightError(formatter, ErrCodeGeneric, err)
	}

	// Pre-flight: everything here fails the run before any external
	// tool is invoked.
	refs, err := project.LoadReferences(root)
	if err != nil {
		return preflightError(formatter, ErrCodeConfig, err)
	}
	datasheet, err := refs.Require(project.KeyDatasheet)
	if err != nil {
		return preflightError(formatter, ErrCodeConfig, err)
	}

	patchDir := project.PatchDir(root, opts.Patch)
	specs, err := patch.Discover(patchDir)
	if err != nil {
		return preflightError(formatter, ErrCodePatch, err)
	}

	run := patch.NewRun(opts.Patch, patchDir, specs, opts.DryRun, opts.SkipSync, opts.Verbose)

	runner := &dsl.ExecRunner{Dir: root, Timeout: opts.Timeout}
	client := dsl.NewClient(runner, dsl.ClientConfig{
		CLI:        project.ToolPath(root, refs),
		Root:       root,
		Datasheet:  datasheet,
		SyncConfig: project.SyncConfigPath(root),
	})

	// In json mode the streaming reporter is silenced and the final
	// report document carries everything instead.
	streamOut := cmd.OutOrStdout()
	if opts.Format == "json" {
		streamOut = io.Discard
	}
	reporter := migrate.NewReporter(streamOut, opts.Verbose)

	orch := migrate.New(client, entity.DefaultRules(), reporter)
	report := orch.Run(cmd.Context(), run)

	if report.OK() {
		if opts.Format == "json" {
			if err := formatter.Success(report); err != nil {
				return WrapExitError(ExitFailure, "encoding report", err)
			}
		}
		return nil
	}

	code, message := failureSummary(report)
	if ferr := formatter.Failure(code, message, report); ferr != nil {
		return WrapExitError(ExitFailure, "encoding report", ferr)
	}
	return NewExitError(ExitFailure, message)
}

// failureSummary picks the error code and one-line message for a failed
// run. Apply failures take precedence: they imply a non-zero exit whatever
// the sync outcome.
func failureSummary(report *migrate.Report) (code, message string) {
	if report.Failed > 0 {
		total := report.Applied + report.Failed
		return ErrCodeApply, fmt.Sprintf("%d of %d specs failed to apply", report.Failed, total)
	}
	return ErrCodeSync, "client sync failed"
}

// configureLogging installs the default slog handler; --verbose enables
// debug-level records (unknown entity keys, run tracing).
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// resolveRoot returns the absolute project root, defaulting to the current
// working directory.
func resolveRoot(root string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	return abs, nil
}

// preflightError reports a pre-flight failure through the formatter and
// maps it to the process exit code.
func preflightError(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, code, err)
}
