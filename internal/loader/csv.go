package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
)

type csvReader struct{}

func (csvReader) CanRead(path string) bool {
	return hasExt(path, ".csv", ".tsv")
}

func (csvReader) Read(path string, opt Options) (*dataset.Dataset, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			ds, _ := dataset.New(nil, nil)
			return ds, Info{}, nil
		}
		return nil, Info{}, fmt.Errorf("read header: %w", err)
	}

	t := newTable(header, opt)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, Info{}, fmt.Errorf("read row %d: %w", t.seen+1, err)
		}
		t.add(rec)
	}
	return t.build()
}

func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	return ','
}
