// Package loader reads tabular files into datasets. Readers are chosen by file
// extension from a small registry.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
)

// Options controls how a file is read.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int `json:"max_rows,omitempty"`
	// Delimiter for CSV. If 0, picked from the extension (tab for .tsv, comma otherwise).
	Delimiter rune `json:"delimiter,omitempty"`
	// Numeric locale for CSV/XLSX cells. When DecimalSeparator is set, cells that
	// parse under it are loaded as numbers instead of text.
	DecimalSeparator   rune `json:"decimal,omitempty"`
	ThousandsSeparator rune `json:"thousands,omitempty"`
	// SheetName selects an XLSX sheet; otherwise SheetIndex (1-based, default 1).
	SheetName  string `json:"sheet_name,omitempty"`
	SheetIndex int    `json:"sheet_index,omitempty"`
	// DataPath is a gjson path to the record array inside a JSON document.
	DataPath string `json:"data_path,omitempty"`
}

// Info describes a loaded file.
type Info struct {
	FileName string
	FileSize int64
	// Rows is the number of data rows seen; Loaded is how many were kept.
	Rows     int
	Loaded   int
	Warnings []string
}

// ErrUnsupported indicates a file extension no reader handles.
var ErrUnsupported = errors.New("unsupported file format")

// Reader loads one file format.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) (*dataset.Dataset, Info, error)
}

var registry []Reader

// Register adds a reader to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(jsonReader{})
}

// Load reads path with the first reader that accepts its extension.
func Load(path string, opt Options) (*dataset.Dataset, Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, Info{}, fmt.Errorf("%s is a directory", path)
	}
	for _, r := range registry {
		if !r.CanRead(path) {
			continue
		}
		ds, info, err := r.Read(path, opt)
		if err != nil {
			return nil, Info{}, err
		}
		info.FileName = filepath.Base(path)
		info.FileSize = fi.Size()
		if info.Loaded < info.Rows {
			info.Warnings = append(info.Warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", info.Loaded, info.Rows))
		}
		return ds, info, nil
	}
	return nil, Info{}, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
}

// Supported reports whether some reader handles path.
func Supported(path string) bool {
	for _, r := range registry {
		if r.CanRead(path) {
			return true
		}
	}
	return false
}

func hasExt(path string, exts ...string) bool {
	name := strings.ToLower(path)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// table accumulates text rows under a header and converts them to records.
type table struct {
	header []string
	rows   []dataset.Record
	seen   int
	opt    Options
}

func newTable(header []string, opt Options) *table {
	return &table{header: uniqueHeader(header), opt: opt}
}

// add converts one text row. Short rows are padded with empty cells and extra
// cells beyond the header are dropped. Past MaxRows rows are only counted.
func (t *table) add(cells []string) {
	t.seen++
	if t.opt.MaxRows > 0 && len(t.rows) >= t.opt.MaxRows {
		return
	}
	rec := make(dataset.Record, len(t.header))
	for i, name := range t.header {
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		rec[name] = t.cell(v)
	}
	t.rows = append(t.rows, rec)
}

func (t *table) cell(s string) dataset.Value {
	if s != "" && t.opt.DecimalSeparator != 0 {
		nf := dataset.NumberFormat{DecimalSeparator: t.opt.DecimalSeparator, ThousandsSeparator: t.opt.ThousandsSeparator}
		if f, ok := dataset.ParseLocaleNumber(s, nf); ok {
			return dataset.Number(f)
		}
	}
	return dataset.String(s)
}

func (t *table) build() (*dataset.Dataset, Info, error) {
	ds, err := dataset.New(t.header, t.rows)
	if err != nil {
		return nil, Info{}, err
	}
	return ds, Info{Rows: t.seen, Loaded: len(t.rows)}, nil
}

// uniqueHeader trims names, fills blanks and suffixes duplicates so every
// column keeps its own key.
func uniqueHeader(in []string) []string {
	out := make([]string, len(in))
	taken := make(map[string]bool, len(in))
	for i, h := range in {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if taken[name] {
			for n := 2; ; n++ {
				if c := fmt.Sprintf("%s_%d", name, n); !taken[c] {
					name = c
					break
				}
			}
		}
		taken[name] = true
		out[i] = name
	}
	return out
}
