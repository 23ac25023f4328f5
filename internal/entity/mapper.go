package entity

import "sort"

// Partition is the three-way split of the entity keys detected across a
// run. The sets are disjoint and each is sorted for deterministic output
// and a deterministic sync invocation.
type Partition struct {
	// Syncable holds the deduplicated sync target names (not the entity
	// keys) for keys that map to a client table. Sync runs exactly when
	// this set is non-empty.
	Syncable []string

	// ServerOnly holds entity keys explicitly marked as needing no sync.
	ServerOnly []string

	// Unknown holds detected keys with no table entry. They take no part
	// in sync and are only surfaced at debug level; a new spec section
	// may predate its rule.
	Unknown []string
}

// Partition classifies the given entity keys against the rule table.
func (r SyncRules) Partition(keys []string) Partition {
	targets := map[string]bool{}
	serverOnly := map[string]bool{}
	unknown := map[string]bool{}

	for _, key := range keys {
		target, ok := r[key]
		switch {
		case !ok:
			unknown[key] = true
		case target == "":
			serverOnly[key] = true
		default:
			targets[target] = true
		}
	}

	return Partition{
		Syncable:   sortedKeys(targets),
		ServerOnly: sortedKeys(serverOnly),
		Unknown:    sortedKeys(unknown),
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
