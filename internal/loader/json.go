package loader

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/tidwall/gjson"
)

type jsonReader struct{}

func (jsonReader) CanRead(path string) bool {
	return hasExt(path, ".json")
}

// Read expects an array of objects, either at the top level or at DataPath.
// A single object is treated as a one-row table. Any array element that is
// not an object fails the load with dataset.ErrInvalidRecord.
func (jsonReader) Read(path string, opt Options) (*dataset.Dataset, Info, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("read json: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, Info{}, fmt.Errorf("parse %s: invalid JSON", path)
	}

	data := gjson.ParseBytes(body)
	if opt.DataPath != "" {
		data = data.Get(opt.DataPath)
		if !data.Exists() {
			return nil, Info{}, fmt.Errorf("data path '%s' not found in %s", opt.DataPath, path)
		}
	}

	var elems []gjson.Result
	switch {
	case data.IsArray():
		elems = data.Array()
	case data.IsObject():
		elems = []gjson.Result{data}
	default:
		return nil, Info{}, fmt.Errorf("%s: expected an array of objects", path)
	}

	var (
		columns []string
		seen    = map[string]bool{}
		rows    = make([]dataset.Record, 0, len(elems))
	)
	for i, el := range elems {
		if !el.IsObject() {
			return nil, Info{}, fmt.Errorf("element %d: %w", i, dataset.ErrInvalidRecord)
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			continue
		}
		rec := dataset.Record{}
		el.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
			rec[k] = jsonValue(value)
			return true
		})
		rows = append(rows, rec)
	}

	ds, err := dataset.New(columns, rows)
	if err != nil {
		return nil, Info{}, err
	}
	return ds, Info{Rows: len(elems), Loaded: len(rows)}, nil
}

// jsonValue maps scalars onto cell values. Booleans and nested values keep
// their raw JSON text.
func jsonValue(r gjson.Result) dataset.Value {
	switch r.Type {
	case gjson.Null:
		return dataset.Null()
	case gjson.Number:
		return dataset.Number(r.Float())
	case gjson.String:
		return dataset.String(r.Str)
	default:
		return dataset.String(r.Raw)
	}
}
