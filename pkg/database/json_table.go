package database

import (
	"errors"
	"io"

	"github.com/bisegni/rowset/pkg/parser"
)

// JSONRow implements Row for JSON data.
type JSONRow struct {
	data interface{}
}

func (r *JSONRow) Get(field string) (interface{}, error) {
	switch v := r.data.(type) {
	case parser.Record:
		return Lookup(map[string]interface{}(v), field)
	default:
		return Lookup(v, field)
	}
}

func (r *JSONRow) Primitive() interface{} {
	return r.data
}

// NewJSONRow creates a new Row from raw data
func NewJSONRow(data interface{}) Row {
	return &JSONRow{data: data}
}

// JSONTable adapts a JSON/JSONL file (or inline JSON, or "-" for stdin) to the Table interface.
type JSONTable struct {
	filename string
}

func NewJSONTable(filename string) *JSONTable {
	return &JSONTable{filename: filename}
}

func (t *JSONTable) Iterate() (RowIterator, error) {
	p, err := parser.NewParser(t.filename)
	if err != nil {
		return nil, err
	}

	return &jsonIterator{
		parser: p,
	}, nil
}

type jsonIterator struct {
	parser  *parser.Parser
	current Row
	err     error
}

func (it *jsonIterator) Next() bool {
	record, err := it.parser.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		return false
	}

	it.current = &JSONRow{data: record}
	return true
}

func (it *jsonIterator) Row() Row {
	return it.current
}

func (it *jsonIterator) Error() error {
	return it.err
}

func (it *jsonIterator) Close() error {
	return it.parser.Close()
}
