package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SpecExt is the file extension that marks a spec file.
const SpecExt = ".yaml"

// Discover enumerates all spec files under dir and returns them in apply
// order.
//
// The default order is byte-lexicographic on the slash-normalized relative
// path, independent of the filesystem's enumeration order. When the patch
// carries a patch.yaml manifest, the manifest's explicit order is used
// instead (see manifest.go). The manifest file itself is never a spec.
//
// A missing directory or an empty result is an error, not a silent no-op:
// both almost always mean a mistyped patch name.
func Discover(dir string) ([]Spec, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("patch directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("accessing patch directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	manifestPath := filepath.Join(dir, ManifestName)

	var specs []Spec
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != SpecExt || path == manifestPath {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		specs = append(specs, Spec{Path: path, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning patch directory %s: %w", dir, err)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Rel < specs[j].Rel })

	specs, err = applyManifest(dir, specs)
	if err != nil {
		return nil, err
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("no %s specs found in %s", SpecExt, dir)
	}
	return specs, nil
}

// CountByDepth splits the spec count into root-level specs and nested
// ("loot") specs, for the run header.
func CountByDepth(specs []Spec) (root, nested int) {
	for _, s := range specs {
		if filepath.Dir(filepath.FromSlash(s.Rel)) == "." {
			root++
		} else {
			nested++
		}
	}
	return root, nested
}
