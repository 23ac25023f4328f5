package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/reforge/internal/entity"
	"github.com/roach88/reforge/internal/patch"
	"github.com/roach88/reforge/internal/project"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Patch string
	Root  string
}

// PlanResult is the inspection payload: what apply would do, derived
// without invoking any external tool.
type PlanResult struct {
	Patch       string     `json:"patch"`
	Specs       []PlanSpec `json:"specs"`
	SyncTargets []string   `json:"sync_targets,omitempty"`
	ServerOnly  []string   `json:"server_only,omitempty"`
	UnknownKeys []string   `json:"unknown_keys,omitempty"`
}

// PlanSpec is one spec in apply order with its detected entity keys.
type PlanSpec struct {
	Path     string   `json:"path"`
	Entities []string `json:"entities,omitempty"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan --patch <name>",
		Short: "Show what applying a patch would do",
		Long: `Show the specs a patch would apply, in order, with the entity types each
declares and the client sync targets the run would trigger.

Plan never invokes the dsl tool and does not need the reference file, so
it works on any checkout.

Example:
  reforge plan --patch 103-gear
  reforge plan --patch 103-gear --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Patch, "patch", "", "patch folder name under reforged/specs/patches/ (required)")
	cmd.Flags().StringVar(&opts.Root, "root", "", "project root (default: current directory)")
	_ = cmd.MarkFlagRequired("patch")

	return cmd
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
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

	specs, err := patch.Discover(project.PatchDir(root, opts.Patch))
	if err != nil {
		return preflightError(formatter, ErrCodePatch, err)
	}

	result := PlanResult{Patch: opts.Patch}
	var allKeys []string
	for _, spec := range specs {
		entities, err := patch.DetectEntities(spec.Path)
		if err != nil {
			slog.Warn("entity detection failed", "spec", spec.Rel, "error", err)
		}
		allKeys = append(allKeys, entities...)
		result.Specs = append(result.Specs, PlanSpec{Path: spec.Rel, Entities: entities})
	}

	p := entity.DefaultRules().Partition(allKeys)
	result.SyncTargets = p.Syncable
	result.ServerOnly = p.ServerOnly
	result.UnknownKeys = p.Unknown

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	printPlan(formatter, result)
	return nil
}

// printPlan renders the plan as text.
func printPlan(formatter *OutputFormatter, result PlanResult) {
	w := formatter.Writer

	fmt.Fprintf(w, "Patch %s — %d specs\n\n", result.Patch, len(result.Specs))
	for i, spec := range result.Specs {
		entities := "-"
		if len(spec.Entities) > 0 {
			entities = strings.Join(spec.Entities, ", ")
		}
		fmt.Fprintf(w, "[%d/%d] %s  [%s]\n", i+1, len(result.Specs), spec.Path, entities)
	}

	fmt.Fprintln(w)
	if len(result.SyncTargets) > 0 {
		fmt.Fprintf(w, "Sync targets: %s\n", strings.Join(result.SyncTargets, ", "))
	} else {
		fmt.Fprintln(w, "Sync targets: none")
	}
	if len(result.ServerOnly) > 0 {
		fmt.Fprintf(w, "Server-only: %s (no sync needed)\n", strings.Join(result.ServerOnly, ", "))
	}
	if len(result.UnknownKeys) > 0 {
		fmt.Fprintf(w, "Unmapped keys: %s (no sync rule)\n", strings.Join(result.UnknownKeys, ", "))
	}
}
