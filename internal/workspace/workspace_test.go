package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/mutate"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sales = "region;units;price\nnorth;1;2,5\nsouth;;3,0\nnorth;3;4,5\n"

func setup(t *testing.T) *Workspace {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.csv"), []byte(sales), 0o644))
	w := New("sales", Source{Path: "sales.csv", Delimiter: ";", Decimal: ","}, dir)
	require.NoError(t, w.Save())
	return w
}

func TestSaveAndLoad(t *testing.T) {
	w := setup(t)
	w.Record(engine.Operation{Kind: engine.OpImpute, Column: "units", Strategy: mutate.StrategyZero})
	w.Preferences.Filter = dataset.Filter{Search: "north"}
	w.Preferences.ActiveColumn = "price"
	require.NoError(t, w.Save())

	got, err := Load(w.RootDir())
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, "sales", got.Name)
	assert.Equal(t, ";", got.Source.Delimiter)
	require.Len(t, got.Operations, 1)
	assert.NotEmpty(t, got.Operations[0].ID)
	assert.Equal(t, engine.OpImpute, got.Operations[0].Kind)
	assert.Equal(t, mutate.StrategyZero, got.Operations[0].Strategy)
	assert.Equal(t, "north", got.Preferences.Filter.Search)
	assert.Equal(t, "price", got.Preferences.ActiveColumn)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "workspace not found")
}

func TestOpenReplaysLog(t *testing.T) {
	w := setup(t)
	e := engine.New()
	st, info, err := w.Open(e)
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", info.FileName)
	units, ok := profile.Find(st.Columns, "units")
	require.True(t, ok)
	assert.Equal(t, 1, units.Stats.MissingCount)
	price, _ := profile.Find(st.Columns, "price")
	assert.InDelta(t, 4.5, price.Stats.Numeric.Max, 1e-12)

	w.Record(engine.Operation{Kind: engine.OpImpute, Column: "units", Strategy: mutate.StrategyMean})
	w.Record(engine.Operation{Kind: engine.OpDrop, Column: "region"})
	w.Preferences.Filter = dataset.Filter{Columns: map[string]string{"units": "3"}}

	e = engine.New()
	st, _, err = w.Open(e)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Stats.ColumnCount)
	units, _ = profile.Find(st.Columns, "units")
	assert.Equal(t, 0, units.Stats.MissingCount)
	assert.Len(t, e.Filtered(), 1)

	op, ok := w.Undo()
	require.True(t, ok)
	assert.Equal(t, engine.OpDrop, op.Kind)

	st, _, err = w.Open(engine.New())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Stats.ColumnCount)
}

func TestOpenFailsOnBadReplay(t *testing.T) {
	w := setup(t)
	w.Record(engine.Operation{Kind: engine.OpTransform, Column: "ghost", Transform: mutate.KindLog})
	_, _, err := w.Open(engine.New())
	assert.ErrorIs(t, err, engine.ErrUnknownColumn)
	assert.ErrorContains(t, err, "replay operation 1")
}

func TestUndoEmpty(t *testing.T) {
	w := New("x", Source{}, t.TempDir())
	_, ok := w.Undo()
	assert.False(t, ok)
}

func TestFindRootAndSourcePath(t *testing.T) {
	w := setup(t)
	sub := filepath.Join(w.RootDir(), "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	root, err := FindRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, w.RootDir(), root)
	assert.Equal(t, filepath.Join(w.RootDir(), "sales.csv"), w.SourcePath())

	w.Source.Path = "/data/abs.csv"
	assert.Equal(t, "/data/abs.csv", w.SourcePath())
}

func TestLoaderOptions(t *testing.T) {
	opt := Source{Delimiter: `\t`, Decimal: ",", Thousands: ".", MaxRows: 10}.LoaderOptions()
	assert.Equal(t, '\t', opt.Delimiter)
	assert.Equal(t, ',', opt.DecimalSeparator)
	assert.Equal(t, '.', opt.ThousandsSeparator)
	assert.Equal(t, 10, opt.MaxRows)
}
