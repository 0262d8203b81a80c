package database

import (
	"bytes"
	"encoding/json"
)

// KeyVal is one column of an OrderedMap.
type KeyVal struct {
	Key string
	Val interface{}
}

// OrderedMap represents a map that preserves insertion order.
// Cursor rows are exposed as OrderedMaps so that column order survives encoding.
type OrderedMap []KeyVal

// NewOrderedMap pairs column names with row values.
func NewOrderedMap(columns []string, values []interface{}) OrderedMap {
	om := make(OrderedMap, len(columns))
	for i, c := range columns {
		var v interface{}
		if i < len(values) {
			v = values[i]
		}
		om[i] = KeyVal{Key: c, Val: v}
	}
	return om
}

// MarshalJSON implements the json.Marshaler interface.
func (om OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range om {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(kv.Val)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value for a key (O(N) lookup, rows are narrow)
func (om OrderedMap) Get(key string) (interface{}, bool) {
	for _, kv := range om {
		if kv.Key == key {
			return kv.Val, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (om OrderedMap) Keys() []string {
	keys := make([]string, len(om))
	for i, kv := range om {
		keys[i] = kv.Key
	}
	return keys
}

// String implements fmt.Stringer
func (om OrderedMap) String() string {
	b, _ := om.MarshalJSON()
	return string(b)
}
