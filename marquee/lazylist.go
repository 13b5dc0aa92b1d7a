package marquee

import (
	"encoding/json"
	"math"
	"unicode"
	"unicode/utf8"
)

// List is the host's lazy collection: index access instead of a slice.
type List interface {
	Len() int
	Get(index int) Item
}

// Item is one element of a List. Get reports whether the key exists.
type Item interface {
	Get(key string) (any, bool)
}

// listRecords flattens a List into plain records, reading each configured
// field by its key and, when that yields nothing, by the key with an upper
// case first letter.
func listRecords(l List, fields FieldMap) []Record {
	n := l.Len()
	if n <= 0 {
		return nil
	}
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		item := l.Get(i)
		if item == nil {
			continue
		}
		rec := Record{}
		for _, key := range fields.keys() {
			rec[key] = lookupItem(item, key)
		}
		out = append(out, rec)
	}
	return out
}

func lookupItem(item Item, key string) any {
	if v, ok := item.Get(key); ok && truthy(v) {
		return v
	}
	if alt := capitalize(key); alt != key {
		if v, ok := item.Get(alt); ok && truthy(v) {
			return v
		}
	}
	return ""
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truthy mirrors the loose "has a value" check hosts apply to properties.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case uint64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t != ""
		}
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
