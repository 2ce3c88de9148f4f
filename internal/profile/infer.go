package profile

import "github.com/KaramelBytes/statify-cli/internal/dataset"

// InferType classifies a column. Numeric is checked before date so that
// numeric strings never end up as timestamps.
func InferType(values []dataset.Value) ColumnType {
	present := make([]dataset.Value, 0, len(values))
	for _, v := range values {
		if !v.IsMissing() {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return TypeString
	}
	if all(present, func(v dataset.Value) bool { _, ok := v.Float(); return ok }) {
		return TypeNumeric
	}
	if all(present, func(v dataset.Value) bool { _, ok := v.Time(); return ok }) {
		return TypeDate
	}
	return TypeString
}

func all(vals []dataset.Value, pred func(dataset.Value) bool) bool {
	for _, v := range vals {
		if !pred(v) {
			return false
		}
	}
	return true
}
