package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolves a dot-separated path (".user.name", "items.0.price") against
// nested maps, ordered maps and slices.
func Lookup(data interface{}, path string) (interface{}, error) {
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return data, nil
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		switch v := current.(type) {
		case map[string]interface{}:
			val, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", part)
			}
			current = val
		case OrderedMap:
			val, ok := v.Get(part)
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", part)
			}
			current = val
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index '%s'", part)
			}
			if idx < 0 || idx >= len(v) {
				return nil, fmt.Errorf("array index %d out of bounds", idx)
			}
			current = v[idx]
		default:
			return nil, fmt.Errorf("cannot access '%s' on type %T", part, current)
		}
	}
	return current, nil
}
