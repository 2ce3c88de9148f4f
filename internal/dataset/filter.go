package dataset

import "strings"

// Filter is the display filter: a free-text search over every cell plus
// per-column substring matches. Both are case-insensitive.
type Filter struct {
	Search  string            `json:"search,omitempty" yaml:"search,omitempty"`
	Columns map[string]string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// IsZero reports a filter that keeps every row.
func (f Filter) IsZero() bool {
	if f.Search != "" {
		return false
	}
	for _, v := range f.Columns {
		if v != "" {
			return false
		}
	}
	return true
}

// Without returns a copy of f with no entry for col.
func (f Filter) Without(col string) Filter {
	if _, ok := f.Columns[col]; !ok {
		return f
	}
	cols := make(map[string]string, len(f.Columns)-1)
	for k, v := range f.Columns {
		if k != col {
			cols[k] = v
		}
	}
	f.Columns = cols
	return f
}

// Match reports whether a row passes the filter.
func (f Filter) Match(r Record) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		found := false
		for _, v := range r {
			if strings.Contains(strings.ToLower(v.String()), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for col, want := range f.Columns {
		if want == "" {
			continue
		}
		v, ok := r[col]
		if !ok || !strings.Contains(strings.ToLower(v.String()), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

// Apply returns the rows of d that pass the filter, in order.
func (f Filter) Apply(d *Dataset) []Record {
	rows := d.Rows()
	if f.IsZero() {
		return rows
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
