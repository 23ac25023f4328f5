package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executePlan(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewPlanCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestPlanText(t *testing.T) {
	root := fixtureProject(t, false)

	buf, err := executePlan(t, "text", "--patch", "103-gear", "--root", root)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Patch 103-gear — 2 specs")
	assert.Contains(t, output, "[1/2] 01-items.yaml  [items]")
	assert.Contains(t, output, "[2/2] 02-evolutions.yaml  [evolutions]")
	assert.Contains(t, output, "Sync targets: EquipmentEvolutionData, ItemData")

	// Plan never touches the tool.
	assert.Empty(t, calls(t, root))
}

func TestPlanWorksWithoutReferences(t *testing.T) {
	root := fixtureProject(t, false)
	require.NoError(t, os.Remove(filepath.Join(root, "reforged", ".references")))

	_, err := executePlan(t, "text", "--patch", "103-gear", "--root", root)
	require.NoError(t, err)
}

func TestPlanJSON(t *testing.T) {
	root := fixtureProject(t, false)

	buf, err := executePlan(t, "json", "--patch", "103-gear", "--root", root)
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "103-gear", data["patch"])
	assert.Equal(t, []interface{}{"EquipmentEvolutionData", "ItemData"}, data["sync_targets"])
}

func TestPlanServerOnlyAndUnmapped(t *testing.T) {
	root := fixtureProject(t, false)
	patchDir := filepath.Join(root, "reforged", "specs", "patches", "103-gear")
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "03-extras.yaml"),
		[]byte("passivities:\n  - id: 1\nfutureSections:\n  - id: 2\n"), 0644))

	buf, err := executePlan(t, "text", "--patch", "103-gear", "--root", root)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Server-only: passivities (no sync needed)")
	assert.Contains(t, output, "Unmapped keys: futureSections (no sync rule)")
}

func TestPlanMissingPatch(t *testing.T) {
	root := fixtureProject(t, false)

	buf, err := executePlan(t, "text", "--patch", "ghost", "--root", root)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E003]")
}

func TestPlanHelpText(t *testing.T) {
	buf, err := executePlan(t, "text", "--help")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "never invokes the dsl tool")
}
