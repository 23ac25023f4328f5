package patch

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestName is the optional per-patch ordering manifest. Filename sort
// is an implicit, fragile dependency mechanism for larger patches; a
// manifest makes the order explicit.
const ManifestName = "patch.yaml"

// Manifest pins an explicit apply order for a patch. When present it must
// account for every spec on disk, so the order is fully explicit rather
// than a mix of pinned and sorted entries.
type Manifest struct {
	Specs []string `yaml:"specs"`
}

// applyManifest reorders specs per the patch manifest, if one exists.
// Without a manifest the input order is returned unchanged.
func applyManifest(dir string, specs []Spec) ([]Spec, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return specs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	byRel := make(map[string]Spec, len(specs))
	for _, s := range specs {
		byRel[s.Rel] = s
	}

	ordered := make([]Spec, 0, len(manifest.Specs))
	seen := make(map[string]bool, len(manifest.Specs))
	for _, entry := range manifest.Specs {
		rel := filepath.ToSlash(entry)
		if seen[rel] {
			return nil, fmt.Errorf("manifest %s lists %s twice", path, rel)
		}
		seen[rel] = true
		spec, ok := byRel[rel]
		if !ok {
			return nil, fmt.Errorf("manifest %s lists %s, which does not exist", path, rel)
		}
		ordered = append(ordered, spec)
	}

	for _, s := range specs {
		if !seen[s.Rel] {
			return nil, fmt.Errorf("manifest %s does not list %s", path, s.Rel)
		}
	}
	return ordered, nil
}
