package patch

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// topLevelKey matches an unindented YAML mapping key. Nested keys are
// always indented in generated specs, so anchoring at column zero is enough
// to pick out top-level sections without parsing YAML.
var topLevelKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):`)

// DetectEntities scans a spec file and returns the sorted set of top-level
// entity keys it declares.
//
// This is a pure line scan, not a YAML parse: specs are opaque to the
// migration, and a spec the scanner cannot make sense of is still handed to
// the apply tool, whose own diagnostics are authoritative. Whether the keys
// are known entity types is the sync mapper's concern, not the detector's.
func DetectEntities(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}
	defer f.Close()

	set := map[string]bool{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := topLevelKey.FindStringSubmatch(scanner.Text()); m != nil {
			set[m[1]] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
