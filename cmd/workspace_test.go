package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWorkspace writes salesCSV and initializes a workspace next to it.
func newWorkspace(t *testing.T) string {
	t.Helper()
	home := isolate(t)
	dir := filepath.Join(home, "ws")
	data := writeFile(t, filepath.Join(dir, "sales.csv"), salesCSV)
	out := runCmd(t, "init", data, "--dir", dir)
	assert.Contains(t, out, "✓ Workspace initialized")
	assert.Contains(t, out, "4 rows, 3 columns")
	return dir
}

func TestInitStoresRelativeSource(t *testing.T) {
	dir := newWorkspace(t)
	ws, err := workspace.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sales", ws.Name)
	assert.Equal(t, "sales.csv", ws.Source.Path)
	assert.NotEmpty(t, ws.ID)

	_, err = execute(t, "init", filepath.Join(dir, "sales.csv"), "--dir", dir)
	assert.ErrorContains(t, err, "workspace already exists")
}

func TestInitRejectsUnreadableSource(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "ws")
	bad := writeFile(t, filepath.Join(home, "rows.json"), `{"rows": 1}`)
	_, err := execute(t, "init", bad, "--dir", dir, "--data-path", "items")
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, workspace.FileName))
	assert.True(t, os.IsNotExist(statErr))

	_, err = execute(t, "init", writeFile(t, filepath.Join(home, "a.txt"), "x"), "--dir", dir)
	assert.ErrorContains(t, err, "unsupported file format")
}

func TestMutationLifecycle(t *testing.T) {
	dir := newWorkspace(t)

	out := runCmd(t, "impute", "units", "mean", "-w", dir)
	assert.Contains(t, out, "✓ Applied impute units (mean)")

	// Soft no-ops are reported but not recorded.
	out = runCmd(t, "transform", "region", "log", "-w", dir)
	assert.Contains(t, out, "⚠ Warning: transform region (log) changed nothing")
	out = runCmd(t, "drop", "ghost", "-w", dir)
	assert.Contains(t, out, "⚠ Warning")

	_, err := execute(t, "impute", "ghost", "mean", "-w", dir)
	assert.ErrorIs(t, err, engine.ErrUnknownColumn)
	_, err = execute(t, "impute", "units", "average", "-w", dir)
	assert.ErrorContains(t, err, "invalid strategy")

	out = runCmd(t, "drop", "region", "-w", dir)
	assert.Contains(t, out, "4 rows, 2 columns")

	out = runCmd(t, "history", "-w", dir)
	assert.Contains(t, out, "1. impute units (mean)")
	assert.Contains(t, out, "2. drop region")
	assert.NotContains(t, out, "transform")

	out = runCmd(t, "show", "-w", dir)
	assert.NotContains(t, out, "- region:")
	assert.Contains(t, out, "- units: numeric (non-null 4, missing 0.0%")

	out = runCmd(t, "undo", "-w", dir)
	assert.Contains(t, out, "✓ Undid drop region")
	out = runCmd(t, "show", "-w", dir)
	assert.Contains(t, out, "- region: ")

	runCmd(t, "undo", "-w", dir)
	out = runCmd(t, "history", "-w", dir)
	assert.Contains(t, out, "(no operations)")
	assert.Contains(t, runCmd(t, "undo", "-w", dir), "Nothing to undo")
}

func TestFilterRegressAndCluster(t *testing.T) {
	dir := newWorkspace(t)

	out := runCmd(t, "filter", "--column", "region=NORTH", "-w", dir)
	assert.Contains(t, out, "2 of 4 rows match")
	ws, err := workspace.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"region": "NORTH"}, ws.Preferences.Filter.Columns)

	out = runCmd(t, "regress", "units", "price", "-w", dir)
	assert.Contains(t, out, "[REGRESSION]")
	assert.Contains(t, out, "Slope: 10")
	assert.Contains(t, out, "R²: 1.0000")
	assert.Contains(t, out, "Points: 2")

	out = runCmd(t, "cluster", "units", "price", "-k", "2", "--format", "json", "-w", dir)
	var res struct {
		Centroids   [][]float64 `json:"centroids"`
		Assignments []int       `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Centroids, 2)
	assert.Equal(t, []int{0, 1}, res.Assignments)

	_, err = execute(t, "cluster", "units", "price", "-k", "3", "-w", dir)
	assert.ErrorIs(t, err, engine.ErrUnavailable)
	_, err = execute(t, "regress", "units", "ghost", "-w", dir)
	assert.ErrorIs(t, err, engine.ErrUnknownColumn)

	out = runCmd(t, "show", "-w", dir)
	assert.Contains(t, out, "Filter: 2 of 4 rows shown in samples")
	assert.Contains(t, out, "Rows: 4")

	_, err = execute(t, "filter", "--column", "nope=1", "-w", dir)
	assert.ErrorContains(t, err, "unknown column")
	_, err = execute(t, "filter", "--column", "broken", "-w", dir)
	assert.ErrorContains(t, err, "use column=value")

	out = runCmd(t, "filter", "--clear", "-w", dir)
	assert.Contains(t, out, "✓ Filter cleared: 4 rows")
	out = runCmd(t, "regress", "units", "price", "-w", dir)
	assert.Contains(t, out, "Points: 3")
}

func TestShowActiveColumn(t *testing.T) {
	dir := newWorkspace(t)

	out := runCmd(t, "show", "--column", "price", "-w", dir)
	assert.Contains(t, out, "[COLUMN]")
	assert.Contains(t, out, "- price: numeric")

	// Remembered across runs
	out = runCmd(t, "show", "-w", dir)
	assert.Contains(t, out, "[COLUMN]")

	_, err := execute(t, "show", "--column", "ghost", "-w", dir)
	assert.ErrorContains(t, err, "unknown column")

	out = runCmd(t, "show", "--column", "", "-w", dir)
	assert.Contains(t, out, "[DATASET SUMMARY]")
}

func TestWorkspaceRequired(t *testing.T) {
	home := isolate(t)
	_, err := execute(t, "show", "-w", filepath.Join(home, "nowhere"))
	assert.ErrorContains(t, err, "workspace not found")
}

func TestDropClearsPreferencesForColumn(t *testing.T) {
	dir := newWorkspace(t)
	runCmd(t, "filter", "--column", "region=north", "-w", dir)
	runCmd(t, "show", "--column", "region", "-w", dir)

	out := runCmd(t, "drop", "region", "-w", dir)
	assert.Contains(t, out, "✓ Applied drop region")
	ws, err := workspace.Load(dir)
	require.NoError(t, err)
	assert.True(t, ws.Preferences.Filter.IsZero())
	assert.Empty(t, ws.Preferences.ActiveColumn)

	out = runCmd(t, "regress", "units", "price", "-w", dir)
	assert.Contains(t, out, "Points: 3")
}

func TestShowColumnHistogram(t *testing.T) {
	dir := newWorkspace(t)
	out := runCmd(t, "show", "--column", "price", "-w", dir)
	assert.Contains(t, out, "[HISTOGRAM]")

	out = runCmd(t, "show", "--format", "json", "-w", dir)
	var view struct {
		ID        string `json:"id"`
		Histogram []struct {
			Lower float64 `json:"lower"`
			Count int     `json:"count"`
		} `json:"histogram"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "price", view.ID)
	require.Len(t, view.Histogram, 11)
	assert.Equal(t, 10.0, view.Histogram[0].Lower)
	assert.Equal(t, 1, view.Histogram[0].Count)
	assert.Equal(t, 1, view.Histogram[10].Count)
}
