package migrate

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/reforge/internal/patch"
)

// SyncStatus is the terminal state of the sync phase.
type SyncStatus string

const (
	// SyncOK: sync ran and succeeded.
	SyncOK SyncStatus = "ok"
	// SyncFailed: sync ran and the tool exited non-zero.
	SyncFailed SyncStatus = "failed"
	// SyncSkipped: suppressed by --skip-sync.
	SyncSkipped SyncStatus = "skipped"
	// SyncNotNeeded: no applied spec declared a syncable entity type.
	SyncNotNeeded SyncStatus = "not-needed"
)

// Report accumulates the outcome of one patch run. It is the payload for
// --format json and the source of the process exit code.
type Report struct {
	RunID       uuid.UUID       `json:"run_id"`
	Patch       string          `json:"patch"`
	DryRun      bool            `json:"dry_run"`
	Outcomes    []patch.Outcome `json:"specs"`
	Applied     int             `json:"applied"`
	Failed      int             `json:"failed"`
	SyncTargets []string        `json:"sync_targets,omitempty"`
	ServerOnly  []string        `json:"server_only,omitempty"`
	UnknownKeys []string        `json:"unknown_keys,omitempty"`
	Sync        SyncStatus      `json:"sync"`
	SyncOutput  string          `json:"sync_output,omitempty"`
}

// OK reports whether the run as a whole succeeded: every apply exited zero
// and the sync phase did not fail. A skipped or unnecessary sync does not
// count against the run; a failed one does, even though it never
// retroactively marks applied specs as failed.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Sync != SyncFailed
}

// FailedSpecs lists the relative paths of specs whose apply failed, in
// apply order.
func (r *Report) FailedSpecs() []string {
	var out []string
	for _, o := range r.Outcomes {
		if !o.Success {
			out = append(out, o.Spec.Rel)
		}
	}
	return out
}

// Reporter renders run progress as human-readable text, line by line as
// events happen, so failures are visible immediately rather than only in
// the final summary. In json mode the CLI hands it io.Discard and emits
// the Report instead.
type Reporter struct {
	w       io.Writer
	verbose bool
}

// NewReporter writes to w; verbose switches per-spec one-liners to full
// captured output.
func NewReporter(w io.Writer, verbose bool) *Reporter {
	return &Reporter{w: w, verbose: verbose}
}

// Header prints the run banner with the root/nested spec breakdown.
func (r *Reporter) Header(run *patch.Run, rootCount, nestedCount int) {
	var parts []string
	if rootCount > 0 {
		parts = append(parts, fmt.Sprintf("%d specs", rootCount))
	}
	if nestedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d loot specs", nestedCount))
	}
	fmt.Fprintf(r.w, "Patch %s — %s (%d total)\n", run.Patch, strings.Join(parts, " + "), len(run.Specs))
	if run.DryRun {
		fmt.Fprintln(r.w, "(dry-run mode)")
	}
	fmt.Fprintln(r.w)
}

// SpecStart prints the progress line for the spec about to be applied.
func (r *Reporter) SpecStart(i, n int, rel string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", i, n, rel)
}

// SpecResult prints the outcome line(s) for one applied spec.
func (r *Reporter) SpecResult(o patch.Outcome) {
	if o.Success {
		if r.verbose && o.Output != "" {
			for _, line := range strings.Split(o.Output, "\n") {
				fmt.Fprintf(r.w, "        %s\n", line)
			}
			return
		}
		if line := summaryLine(o.Output); line != "" {
			fmt.Fprintf(r.w, "        ✓ %s\n", line)
		} else {
			fmt.Fprintln(r.w, "        ✓ Applied")
		}
		return
	}

	lines := strings.Split(o.Output, "\n")
	fmt.Fprintf(r.w, "        ✗ Failed — %s\n", lines[0])
	if r.verbose {
		for _, line := range lines[1:] {
			fmt.Fprintf(r.w, "          %s\n", line)
		}
	}
}

// Summary prints the apply-phase totals and the entity breakdown.
func (r *Reporter) Summary(rep *Report) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "── Summary ──")

	failNote := ""
	if rep.Failed > 0 {
		failNote = fmt.Sprintf(" (%d failed)", rep.Failed)
	}
	fmt.Fprintf(r.w, "Applied: %d specs%s\n", rep.Applied, failNote)

	if r.verbose {
		for _, rel := range rep.FailedSpecs() {
			fmt.Fprintf(r.w, "  ✗ %s\n", rel)
		}
	}

	if len(rep.SyncTargets) > 0 {
		fmt.Fprintf(r.w, "Entities modified: %s\n", strings.Join(rep.SyncTargets, ", "))
	}
	if len(rep.ServerOnly) > 0 {
		fmt.Fprintf(r.w, "Server-only: %s (no sync needed)\n", strings.Join(rep.ServerOnly, ", "))
	}
}

// SyncSkipped reports that sync was suppressed by request. Skips are
// announced, never silent.
func (r *Reporter) SyncSkipped() {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "Sync skipped (--skip-sync)")
}

// SyncNotNeeded reports that no applied spec declared a syncable entity.
func (r *Reporter) SyncNotNeeded() {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "No syncable entities — nothing to sync")
}

// SyncStart prints the sync banner with the target set about to be synced.
func (r *Reporter) SyncStart(targets []string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "── Client Sync ──")
	fmt.Fprintf(r.w, "Syncing: %s\n", strings.Join(targets, ", "))
}

// SyncResult prints the sync outcome.
func (r *Reporter) SyncResult(rep *Report) {
	if rep.Sync == SyncOK {
		fmt.Fprintln(r.w, "✓ Sync complete")
		if r.verbose && rep.SyncOutput != "" {
			for _, line := range strings.Split(rep.SyncOutput, "\n") {
				fmt.Fprintf(r.w, "  %s\n", line)
			}
		}
		return
	}
	fmt.Fprintf(r.w, "✗ Sync failed — %s\n", rep.SyncOutput)
}

// summaryLine picks the tool's one-line operation summary out of its
// output, matching the line the apply tool emits on success.
func summaryLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Applied") || strings.Contains(strings.ToLower(line), "operations") {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
