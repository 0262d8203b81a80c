package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/parser"
)

// Operators that are not plain comparison symbols.
const (
	OpContains  = "contains"
	OpIsNull    = "is null"
	OpIsNotNull = "is not null"
)

// Filter represents a filtering condition
type Filter struct {
	Field    string
	Operator string
	Value    interface{}
}

// NewFilter creates a new filter
func NewFilter(field, operator string, value interface{}) *Filter {
	return &Filter{
		Field:    strings.TrimPrefix(field, "."),
		Operator: operator,
		Value:    value,
	}
}

// Match checks if a record matches the filter. A field that does not
// resolve is treated as null.
func (f *Filter) Match(record interface{}) bool {
	if r, ok := record.(parser.Record); ok {
		record = map[string]interface{}(r)
	}
	value, err := database.Lookup(record, f.Field)
	if err != nil {
		return f.Operator == OpIsNull
	}
	return f.matchValue(value)
}

func (f *Filter) String() string {
	switch f.Operator {
	case OpIsNull, OpIsNotNull:
		return f.Field + " " + strings.ToUpper(f.Operator)
	case OpContains:
		return f.Field + " CONTAINS " + quote(f.Value)
	default:
		return f.Field + " " + f.Operator + " " + quote(f.Value)
	}
}

func (f *Filter) matchValue(value interface{}) bool {
	switch f.Operator {
	case OpIsNull:
		return value == nil
	case OpIsNotNull:
		return value != nil
	}

	// Handle collections - if ANY element matches, the filter matches
	switch v := value.(type) {
	case map[string]interface{}:
		for _, val := range v {
			if f.matchValue(val) {
				return true
			}
		}
		return false
	case database.OrderedMap:
		for _, kv := range v {
			if f.matchValue(kv.Val) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, val := range v {
			if f.matchValue(val) {
				return true
			}
		}
		return false
	}

	switch f.Operator {
	case "=", "==":
		return compareEqual(value, f.Value)
	case "!=":
		return !compareEqual(value, f.Value)
	case ">":
		c, ok := compare(value, f.Value)
		return ok && c > 0
	case ">=":
		c, ok := compare(value, f.Value)
		return ok && c >= 0
	case "<":
		c, ok := compare(value, f.Value)
		return ok && c < 0
	case "<=":
		c, ok := compare(value, f.Value)
		return ok && c <= 0
	case OpContains:
		return containsValue(value, f.Value)
	default:
		return false
	}
}

func compareEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Try direct comparison for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	case time.Time:
		if bt, ok := toTime(b); ok {
			return av.Equal(bt)
		}
	}
	if af, ok := toNumber(a); ok {
		if bf, ok := toNumber(b); ok {
			return af == bf
		}
	}
	// Fallback to string comparison for other types
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// compare orders a against b. ok is false when the two values have no
// common ordering.
func compare(a, b interface{}) (c int, ok bool) {
	if at, isTime := a.(time.Time); isTime {
		bt, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}

	af, aok := toFloat64(a)
	bf, bok := toFloat64(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func containsValue(a, b interface{}) bool {
	// Handle string types directly for efficiency
	if aStr, ok := a.(string); ok {
		if bStr, ok := b.(string); ok {
			return strings.Contains(aStr, bStr)
		}
		// If b is not a string, convert it
		bStr := fmt.Sprintf("%v", b)
		return strings.Contains(aStr, bStr)
	}
	if a == nil {
		return false
	}
	// Fallback to string conversion for other types
	aStr := fmt.Sprintf("%v", a)
	bStr := fmt.Sprintf("%v", b)
	return strings.Contains(aStr, bStr)
}

// toNumber converts numeric Go values without parsing strings.
func toNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	if f, ok := toNumber(v); ok {
		return f, true
	}
	switch val := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		f, err := strconv.ParseFloat(fmt.Sprintf("%v", v), 64)
		return f, err == nil
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
