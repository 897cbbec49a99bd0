package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a closed tagged variant for free-form JSON decision data.
// The zero Value is null. All operations are total: truthiness and
// comparison are defined for every kind combination and never fail.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of values.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Object wraps a string-keyed mapping.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, obj: fields} }

// FromAny converts the result of a generic JSON decode (map[string]any,
// []any, float64, string, bool, nil) into a Value. Unrecognized Go types
// fall back to their string representation.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case string:
		return String(t)
	case []any:
		items := make([]Value, len(t))
		for i, it := range t {
			items[i] = FromAny(it)
		}
		return Array(items...)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, it := range t {
			fields[k] = FromAny(it)
		}
		return Object(fields)
	case Value:
		return t
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Truthy implements the engine-wide truthiness contract: true, nonzero
// numbers and non-empty strings/collections are truthy; false, 0, "",
// empty collections and null are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	}
	return false
}

// Bool returns the boolean payload. ok is false for other kinds.
func (v Value) Bool() (b, ok bool) { return v.b, v.kind == KindBool }

// Number returns the numeric payload. ok is false for other kinds.
func (v Value) Number() (n float64, ok bool) { return v.n, v.kind == KindNumber }

// Str returns the string payload. ok is false for other kinds.
func (v Value) Str() (s string, ok bool) { return v.s, v.kind == KindString }

// Equal reports deep equality. Values of different kinds are never equal,
// except that null equals null.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, val := range v.obj {
			o, ok := other.obj[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two values. Only number-number and string-string pairs are
// ordered; every other combination (including anything involving null)
// returns ok=false so the caller can degrade to false instead of erroring.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	switch {
	case v.kind == KindNumber && other.kind == KindNumber:
		switch {
		case v.n < other.n:
			return -1, true
		case v.n > other.n:
			return 1, true
		}
		return 0, true
	case v.kind == KindString && other.kind == KindString:
		return strings.Compare(v.s, other.s), true
	}
	return 0, false
}

// Canonical normalizes stringly-typed boolean flags the way agents tend to
// emit them: "true"/"1"/"yes" become true, "false"/"0"/"no" become false.
// Any other value is returned unchanged.
func (v Value) Canonical() Value {
	if v.kind != KindString {
		return v
	}
	switch strings.ToLower(v.s) {
	case "true", "1", "yes":
		return Bool(true)
	case "false", "0", "no":
		return Bool(false)
	}
	return v
}

// Interface converts the value back into plain Go types suitable for
// generic JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		items := make([]any, len(v.arr))
		for i, it := range v.arr {
			items[i] = it.Interface()
		}
		return items
	case KindObject:
		fields := make(map[string]any, len(v.obj))
		for k, it := range v.obj {
			fields[k] = it.Interface()
		}
		return fields
	}
	return nil
}

// String renders the value as compact JSON. Intended for logs and template
// substitution, not for machine round-trips.
func (v Value) String() string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// Decisions is the accumulated, most-recent-wins mapping of structured
// agent output used to drive routing.
type Decisions map[string]Value

// Merge applies the keys of other on top of d. Existing keys not present in
// other are retained; colliding keys are overwritten. String boolean flags
// are canonicalized on the way in.
func (d Decisions) Merge(other Decisions) {
	for k, v := range other {
		d[k] = v.Canonical()
	}
}

// Clone returns an independent copy.
func (d Decisions) Clone() Decisions {
	out := make(Decisions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns the decision keys in sorted order, for stable logs and
// rendered summaries.
func (d Decisions) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
