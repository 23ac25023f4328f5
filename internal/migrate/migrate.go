package migrate

import (
	"context"
	"log/slog"

	"github.com/roach88/reforge/internal/dsl"
	"github.com/roach88/reforge/internal/entity"
	"github.com/roach88/reforge/internal/patch"
)

// Orchestrator drives one patch run: apply every spec in order, map the
// detected entity keys to sync targets, then sync once if needed.
type Orchestrator struct {
	client   *dsl.Client
	rules    entity.SyncRules
	reporter *Reporter
}

// New builds an orchestrator. The rule table is injected so tests can
// substitute alternate tables.
func New(client *dsl.Client, rules entity.SyncRules, reporter *Reporter) *Orchestrator {
	return &Orchestrator{client: client, rules: rules, reporter: reporter}
}

// Run executes the full pipeline for one patch run and returns the
// accumulated report. Run never aborts mid-batch: every spec gets its
// apply attempt, and every failure ends up in the report.
func (o *Orchestrator) Run(ctx context.Context, run *patch.Run) *Report {
	report := &Report{
		RunID:  run.ID,
		Patch:  run.Patch,
		DryRun: run.DryRun,
	}

	slog.Debug("starting patch run",
		"run_id", run.ID, "patch", run.Patch, "specs", len(run.Specs),
		"dry_run", run.DryRun, "skip_sync", run.SkipSync)

	rootCount, nestedCount := patch.CountByDepth(run.Specs)
	o.reporter.Header(run, rootCount, nestedCount)

	var allKeys []string
	for i, spec := range run.Specs {
		o.reporter.SpecStart(i+1, len(run.Specs), spec.Rel)

		// Detection happens before the apply and its result sticks even
		// when the apply fails; see the package comment.
		entities, err := patch.DetectEntities(spec.Path)
		if err != nil {
			slog.Warn("entity detection failed", "spec", spec.Rel, "error", err)
		}
		allKeys = append(allKeys, entities...)

		result := o.client.Apply(ctx, spec.Path, run.DryRun)

		outcome := patch.Outcome{
			Spec:     spec,
			Success:  result.OK(),
			Entities: entities,
		}
		if result.OK() {
			outcome.Output = result.Stdout
			report.Applied++
		} else {
			outcome.Output = result.ErrorText()
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, outcome)
		o.reporter.SpecResult(outcome)
	}

	p := o.rules.Partition(allKeys)
	report.SyncTargets = p.Syncable
	report.ServerOnly = p.ServerOnly
	report.UnknownKeys = p.Unknown
	if len(p.Unknown) > 0 {
		slog.Debug("entity keys without sync rules", "keys", p.Unknown)
	}

	o.reporter.Summary(report)

	switch {
	case run.SkipSync:
		report.Sync = SyncSkipped
		o.reporter.SyncSkipped()
	case len(p.Syncable) == 0:
		report.Sync = SyncNotNeeded
		o.reporter.SyncNotNeeded()
	default:
		o.reporter.SyncStart(p.Syncable)
		result := o.client.Sync(ctx, p.Syncable, run.DryRun)
		if result.OK() {
			report.Sync = SyncOK
			report.SyncOutput = result.Stdout
		} else {
			report.Sync = SyncFailed
			report.SyncOutput = result.ErrorText()
		}
		o.reporter.SyncResult(report)
	}

	slog.Debug("patch run finished",
		"run_id", run.ID, "applied", report.Applied, "failed", report.Failed,
		"sync", report.Sync)
	return report
}
