package store

import (
	"encoding/json"
	"strings"
	"time"
)

// matchFilters evaluates filters against a raw document. Used by the
// memory backend and by subscription snapshots; the Postgres backend
// pushes the same predicates into SQL.
func matchFilters(raw json.RawMessage, filters []Filter) bool {
	if len(filters) == 0 {
		return true
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	for _, f := range filters {
		value, ok := doc[f.Field]
		if !ok {
			return false
		}
		if !compare(value, f.Op, f.Value) {
			return false
		}
	}
	return true
}

func compare(docValue interface{}, op string, want interface{}) bool {
	if a, b, ok := bothNumeric(docValue, want); ok {
		switch op {
		case "==":
			return a == b
		case "<":
			return a < b
		case "<=":
			return a <= b
		case ">":
			return a > b
		case ">=":
			return a >= b
		}
		return false
	}

	a, b := stringify(docValue), stringify(want)
	cmp := strings.Compare(a, b)
	switch op {
	case "==":
		return cmp == 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func bothNumeric(a, b interface{}) (float64, float64, bool) {
	x, ok1 := toFloat(a)
	y, ok2 := toFloat(b)
	return x, y, ok1 && ok2
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano)
	case bool:
		if s {
			return "true"
		}
		return "false"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(raw), `"`)
}
