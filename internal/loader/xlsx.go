package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	return hasExt(path, ".xlsx")
}

// Read loads one sheet: the first row is the header. If SheetName is empty the
// sheet is picked by 1-based SheetIndex, defaulting to the first.
func (xlsxReader) Read(path string, opt Options) (*dataset.Dataset, Info, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), path, opt)
	if err != nil {
		return nil, Info{}, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var t *table
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, Info{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if t == nil {
			if blank(cells) {
				continue
			}
			t = newTable(cells, opt)
			continue
		}
		if blank(cells) {
			continue
		}
		t.add(cells)
	}
	if err := rows.Error(); err != nil {
		return nil, Info{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if t == nil {
		ds, _ := dataset.New(nil, nil)
		return ds, Info{}, nil
	}
	return t.build()
}

func pickSheet(sheets []string, path string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook '%s' has no sheets", filepath.Base(path))
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, filepath.Base(path), strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range: workbook '%s' has %d sheet(s)", idx, filepath.Base(path), len(sheets))
	}
	return sheets[idx-1], nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
