package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

// Value is a single cell: null, a number, or a string.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null returns the missing value.
func Null() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string. The empty string is kept as a string but reports IsMissing.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Kind reports which of null, number or string v holds.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports null and empty-string cells.
func (v Value) IsMissing() bool {
	return v.kind == KindNull || (v.kind == KindString && v.str == "")
}

// Float returns the value as a finite number if it is one or parses as one.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindString:
		return ParseNumber(v.str)
	default:
		return 0, false
	}
}

// Time returns the value as a timestamp. Numbers are read as Unix milliseconds.
func (v Value) Time() (time.Time, bool) {
	switch v.kind {
	case KindNumber:
		f, ok := v.Float()
		if !ok {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	case KindString:
		return ParseTime(v.str)
	default:
		return time.Time{}, false
	}
}

// String renders the value the way it is displayed and counted in frequencies.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Key distinguishes null, "", 1 and "1" from one another.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return "s:" + v.str
	default:
		return "null"
	}
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	return v.Key() == o.Key()
}

// MarshalJSON encodes null, number, or string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, numbers and strings; anything else is kept as raw text.
func (v *Value) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*v = Null()
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = Number(f)
		return nil
	}
	*v = String(raw)
	return nil
}
