package database

import (
	"fmt"
	"sort"

	"github.com/bisegni/rowset/pkg/logging"
	"github.com/bisegni/rowset/pkg/parser"
)

// Load materialises every row of t into a new MemoryCursor.
//
// Columns appear in first-seen order; keys of unordered map records are taken
// in sorted order. A row missing a column holds nil there.
func Load(t Table, opts ...Option) (*MemoryCursor, error) {
	it, err := t.Iterate()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var records []OrderedMap
	var columns []string
	seen := make(map[string]bool)

	for it.Next() {
		om, err := toOrderedMap(it.Row().Primitive())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		for _, key := range om.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		records = append(records, om)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	c := NewMemoryCursor(columns, opts...)
	for _, om := range records {
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			values[i], _ = om.Get(col)
		}
		if err := c.Append(values...); err != nil {
			return nil, err
		}
	}

	logging.WithComponent("database").Debug("rows loaded", "rows", c.Size(), "columns", len(columns))
	return c, nil
}

// LoadFile loads a JSON/JSONL file, inline JSON or stdin ("-") into a MemoryCursor.
func LoadFile(filename string, opts ...Option) (*MemoryCursor, error) {
	c, err := Load(NewJSONTable(filename), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return c, nil
}

func toOrderedMap(primitive interface{}) (OrderedMap, error) {
	switch v := primitive.(type) {
	case OrderedMap:
		return v, nil
	case parser.Record:
		return sortedMap(v), nil
	case map[string]interface{}:
		return sortedMap(v), nil
	default:
		return nil, fmt.Errorf("unsupported row type %T", primitive)
	}
}

func sortedMap(m map[string]interface{}) OrderedMap {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	om := make(OrderedMap, len(keys))
	for i, k := range keys {
		om[i] = KeyVal{Key: k, Val: m[k]}
	}
	return om
}
