// Package migrate orchestrates the application of a patch against the
// external dsl tool and the follow-on client sync.
//
// The run is strictly sequential, single threaded: specs within a patch
// are ordered because later specs assume earlier ones have already mutated
// the shared datasheet, so there is never an overlap between two apply
// invocations, and the sync phase starts only after every apply attempt
// has finished.
//
// Failure policy is fail-soft per spec, fail-loud at the end: a failed
// apply is recorded and the run moves to the next spec, so one pass
// surfaces every independent problem instead of stopping at the first.
// Entity keys are detected before each apply and kept even when the apply
// fails, since a partially applied spec may already have touched the
// entities it names; over-reporting a sync candidate is cheap, while
// under-reporting risks stale client tables.
//
// Dry-run mode is forwarded to the external tool and changes nothing in
// the orchestration itself: control flow with and without --dry-run is
// identical.
package migrate
