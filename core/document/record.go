package document

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Record is one free-form item of a collection. It is stored verbatim.
type Record map[string]interface{}

// ID returns the canonical form of the record's "id" field.
func (r Record) ID() string {
	return CanonicalID(r["id"])
}

// StringField returns the string value of `key`, or "" when missing or not a string.
func (r Record) StringField(key string) string {
	s, _ := r[key].(string)
	return s
}

// Matches reports whether the value of `key` loosely equals `v`.
func (r Record) Matches(key string, v interface{}) bool {
	return LooseEqual(r[key], v)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneValue(map[string]interface{}(r)).(map[string]interface{})
}

// Merge copies every key of patch onto r (shallow) and returns r.
func (r Record) Merge(patch Record) Record {
	for k, v := range patch {
		r[k] = cloneValue(v)
	}
	return r
}

// CanonicalID formats an id-like value so that the number 5 and the string "5" compare equal.
func CanonicalID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

// LooseEqual compares two id-like values by their canonical form. Missing values never match.
func LooseEqual(a, b interface{}) bool {
	ca := CanonicalID(a)
	return ca != "" && ca == CanonicalID(b)
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, vv := range val {
			m[k] = cloneValue(vv)
		}
		return m
	case Record:
		return Record(cloneValue(map[string]interface{}(val)).(map[string]interface{}))
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, vv := range val {
			s[i] = cloneValue(vv)
		}
		return s
	case []Record:
		s := make([]Record, len(val))
		for i, vv := range val {
			s[i] = vv.Clone()
		}
		return s
	default:
		return val
	}
}
