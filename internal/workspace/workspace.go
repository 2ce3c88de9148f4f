// Package workspace persists an analysis session on disk: which file is being
// analyzed, how to read it, the mutations applied so far and display
// preferences. The dataset itself is never written; opening a workspace
// reloads the source and replays the mutation log.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/loader"
	"github.com/KaramelBytes/statify-cli/internal/utils"
	"github.com/google/uuid"
)

// FileName is the workspace marker file.
const FileName = "statify.json"

// Workspace is a statify session persisted as statify.json.
type Workspace struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Source      Source       `json:"source"`
	Operations  []*Operation `json:"operations"`
	Preferences Preferences  `json:"preferences"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Not serialized: directory holding statify.json
	rootDir string `json:"-"`
}

// Source says where the data lives and how to read it. Separators are kept
// as strings so the file stays readable.
type Source struct {
	Path       string `json:"path"`
	SheetName  string `json:"sheet_name,omitempty"`
	SheetIndex int    `json:"sheet_index,omitempty"`
	Delimiter  string `json:"delimiter,omitempty"`
	Decimal    string `json:"decimal,omitempty"`
	Thousands  string `json:"thousands,omitempty"`
	MaxRows    int    `json:"max_rows,omitempty"`
	DataPath   string `json:"data_path,omitempty"`
}

// Operation is one applied mutation in the log.
type Operation struct {
	ID string `json:"id"`
	engine.Operation
	AppliedAt time.Time `json:"applied_at"`
}

// Preferences are display settings that survive between runs.
type Preferences struct {
	Filter       dataset.Filter `json:"filter"`
	ActiveColumn string         `json:"active_column,omitempty"`
}

// New constructs an in-memory workspace. Call Save to persist.
func New(name string, src Source, rootDir string) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    src,
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   rootDir,
	}
}

// Load reads statify.json from dir.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	w.rootDir = dir
	return &w, nil
}

// FindRoot returns the nearest directory at or above start holding statify.json.
func FindRoot(start string) (string, error) {
	return utils.FindRoot(start, FileName)
}

// RootDir returns the on-disk workspace directory.
func (w *Workspace) RootDir() string { return w.rootDir }

// Save writes statify.json using an atomic write.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, FileName), data)
}

// SourcePath resolves the source path against the workspace directory.
func (w *Workspace) SourcePath() string {
	if filepath.IsAbs(w.Source.Path) || w.rootDir == "" {
		return w.Source.Path
	}
	return filepath.Join(w.rootDir, w.Source.Path)
}

// LoaderOptions converts the stored source settings.
func (s Source) LoaderOptions() loader.Options {
	return loader.Options{
		MaxRows:            s.MaxRows,
		Delimiter:          firstRune(s.Delimiter),
		DecimalSeparator:   firstRune(s.Decimal),
		ThousandsSeparator: firstRune(s.Thousands),
		SheetName:          s.SheetName,
		SheetIndex:         s.SheetIndex,
		DataPath:           s.DataPath,
	}
}

func firstRune(s string) rune {
	if s == `\t` {
		return '\t'
	}
	for _, r := range s {
		return r
	}
	return 0
}

// Record appends an applied operation to the log.
func (w *Workspace) Record(op engine.Operation) *Operation {
	rec := &Operation{ID: uuid.NewString(), Operation: op, AppliedAt: time.Now()}
	w.Operations = append(w.Operations, rec)
	w.UpdatedAt = rec.AppliedAt
	return rec
}

// Undo removes the last operation from the log. ok is false when the log is empty.
func (w *Workspace) Undo() (*Operation, bool) {
	n := len(w.Operations)
	if n == 0 {
		return nil, false
	}
	last := w.Operations[n-1]
	w.Operations = w.Operations[:n-1]
	w.UpdatedAt = time.Now()
	return last, true
}

// Open loads the source into e, replays the mutation log and applies the saved
// filter. Any replay failure aborts the open.
func (w *Workspace) Open(e *engine.Engine) (*engine.DerivedState, loader.Info, error) {
	ds, info, err := loader.Load(w.SourcePath(), w.Source.LoaderOptions())
	if err != nil {
		return nil, loader.Info{}, fmt.Errorf("load source: %w", err)
	}
	st, err := e.LoadDataset(ds, engine.Metadata{FileName: info.FileName, FileSize: info.FileSize})
	if err != nil {
		return nil, loader.Info{}, err
	}
	for i, op := range w.Operations {
		if st, err = e.Mutate(op.Operation); err != nil {
			return nil, loader.Info{}, fmt.Errorf("replay operation %d (%s): %w", i+1, op.Operation, err)
		}
	}
	e.SetFilter(w.Preferences.Filter)
	return st, info, nil
}
