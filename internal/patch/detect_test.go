package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDetectEntitiesTopLevelOnly(t *testing.T) {
	path := writeSpec(t, `# gear patch
items:
  - id: 10001
    grade: rare
evolutions:
  - from: 10001
    to: 10002
`)

	entities, err := DetectEntities(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"evolutions", "items"}, entities)
}

func TestDetectEntitiesIgnoresNestedKeys(t *testing.T) {
	// Nested mappings are always indented; only column-zero keys count.
	path := writeSpec(t, `items:
  - id: 10001
    enchants: 3
    equipment:
      slot: weapon
`)

	entities, err := DetectEntities(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"items"}, entities)
}

func TestDetectEntitiesDeduplicates(t *testing.T) {
	// A repeated section (e.g. across documents) is still one entity.
	path := writeSpec(t, `items:
  - id: 1
---
items:
  - id: 2
`)

	entities, err := DetectEntities(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"items"}, entities)
}

func TestDetectEntitiesUnknownKeysIncluded(t *testing.T) {
	// Keys outside the sync table are still detected; classifying them
	// is the mapper's job.
	path := writeSpec(t, `passivities:
  - id: 1
futureSections:
  - id: 2
`)

	entities, err := DetectEntities(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"futureSections", "passivities"}, entities)
}

func TestDetectEntitiesEmptySpec(t *testing.T) {
	path := writeSpec(t, "# nothing here\n")

	entities, err := DetectEntities(path)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestDetectEntitiesMissingFile(t *testing.T) {
	_, err := DetectEntities(filepath.Join(t.TempDir(), "gone.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading spec")
}
