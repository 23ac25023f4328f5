// Package project resolves the fixed on-disk layout of a reforged content
// project and loads its reference file.
//
// The reference file is a line-oriented key=value file maintained outside
// version control; it supplies machine-specific paths such as the server
// datasheet location and an optional override for the dsl executable. Its
// format is set by the dsl tooling, not by this package: blank lines and
// lines starting with '#' are ignored, everything else is split on the
// first '=' and trimmed.
package project

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reference file keys recognized by the migration tooling.
const (
	// KeyDatasheet names the server datasheet directory the apply tool
	// mutates. Required.
	KeyDatasheet = "server_datasheet"

	// KeyCLI overrides the path to the dsl executable. Optional; when
	// absent the executable is expected at the project root.
	KeyCLI = "dsl_cli"
)

// Project-relative layout. These locations are shared with the generator
// scripts and the dsl tool and are not configurable.
const (
	referencesRel = "reforged/.references"
	patchesRel    = "reforged/specs/patches"
	syncConfigRel = "reforged/config/sync-config.yaml"
	defaultCLIRel = "dsl"
)

// References holds the parsed key=value pairs from the reference file.
// Loaded once at startup and read-only afterwards.
type References map[string]string

// LoadReferences reads and parses the reference file under root.
//
// A missing or unreadable file is a configuration error: nothing downstream
// can run without a datasheet path, so callers should abort before invoking
// any external tool.
func LoadReferences(root string) (References, error) {
	path := filepath.Join(root, filepath.FromSlash(referencesRel))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reference file not found: %s", path)
		}
		return nil, fmt.Errorf("reading reference file %s: %w", path, err)
	}
	defer f.Close()

	refs := References{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		refs[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reference file %s: %w", path, err)
	}
	return refs, nil
}

// Require returns the value for key or a configuration error naming it.
func (r References) Require(key string) (string, error) {
	value, ok := r[key]
	if !ok {
		return "", fmt.Errorf("missing required reference key %q", key)
	}
	return value, nil
}

// ToolPath returns the dsl executable path: the dsl_cli reference override
// when present, else the default location at the project root.
func ToolPath(root string, refs References) string {
	if path, ok := refs[KeyCLI]; ok {
		return path
	}
	return filepath.Join(root, defaultCLIRel)
}

// PatchDir returns the directory holding the named patch's specs.
func PatchDir(root, patch string) string {
	return filepath.Join(root, filepath.FromSlash(patchesRel), patch)
}

// SyncConfigPath returns the sync configuration file passed to dsl sync.
func SyncConfigPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(syncConfigRel))
}
