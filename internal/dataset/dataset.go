package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRecord marks an input row that is not a record.
var ErrInvalidRecord = errors.New("invalid record")

// Record maps column names to cell values.
type Record map[string]Value

// Dataset is an ordered set of records sharing one column list.
type Dataset struct {
	columns []string
	rows    []Record
}

// New builds a dataset over the given columns. Rows are normalized so every
// record carries every column; absent keys become null. Keys not listed in
// columns are appended in the order of the first row holding them, sorted by
// name within that row.
func New(columns []string, rows []Record) (*Dataset, error) {
	cols := make([]string, 0, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}
	for i, r := range rows {
		if r == nil {
			return nil, fmt.Errorf("row %d: %w", i, ErrInvalidRecord)
		}
		var fresh []string
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				fresh = append(fresh, k)
			}
		}
		sort.Strings(fresh)
		cols = append(cols, fresh...)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		nr := make(Record, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				nr[c] = v
			} else {
				nr[c] = Null()
			}
		}
		out[i] = nr
	}
	return &Dataset{columns: cols, rows: out}, nil
}

// FromRecords infers the column order from the rows alone.
func FromRecords(rows []Record) (*Dataset, error) {
	return New(nil, rows)
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Rows exposes the records. Callers must not modify them.
func (d *Dataset) Rows() []Record {
	if d == nil {
		return nil
	}
	return d.rows
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column collects one column's values in row order.
func (d *Dataset) Column(name string) []Value {
	if d == nil {
		return nil
	}
	out := make([]Value, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[name]
	}
	return out
}

// Clone deep-copies rows so mutations never touch the source dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	rows := make([]Record, len(d.rows))
	for i, r := range d.rows {
		nr := make(Record, len(r))
		for k, v := range r {
			nr[k] = v
		}
		rows[i] = nr
	}
	return &Dataset{columns: d.Columns(), rows: rows}
}

// WithColumn returns a copy where the named column is replaced by fn's result per row.
func (d *Dataset) WithColumn(name string, fn func(Value) Value) *Dataset {
	out := d.Clone()
	for _, r := range out.rows {
		r[name] = fn(r[name])
	}
	return out
}

// WithoutColumn returns a copy with the named column removed from every row.
func (d *Dataset) WithoutColumn(name string) *Dataset {
	out := d.Clone()
	cols := out.columns[:0]
	for _, c := range out.columns {
		if c != name {
			cols = append(cols, c)
		}
	}
	out.columns = cols
	for _, r := range out.rows {
		delete(r, name)
	}
	return out
}

// Head returns up to n rows.
func (d *Dataset) Head(n int) []Record {
	if d == nil || n <= 0 {
		return nil
	}
	if n > len(d.rows) {
		n = len(d.rows)
	}
	return d.rows[:n]
}
