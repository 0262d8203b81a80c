package parser

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record represents a single JSON object
type Record map[string]interface{}

// Parser streams records out of a JSON document (one object, an array of
// objects or concatenated objects) or a JSONL file.
type Parser struct {
	file    *os.File
	isJSONL bool
	tmpFile string // Path to temporary file, if created

	decoder   *json.Decoder
	scanner   *bufio.Scanner
	bufReader *bufio.Reader

	startChecked bool
	inArray      bool
	line         int
}

// NewParser creates a new parser for the given source
// Special cases:
// - Empty string or "-" reads from stdin
// - Strings starting with '{' or '[' are treated as inline JSON
func NewParser(filename string) (*Parser, error) {
	p := &Parser{}

	switch {
	case len(filename) > 0 && (filename[0] == '{' || filename[0] == '['):
		f, err := os.CreateTemp("", "rowset-inline-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		p.tmpFile = f.Name()
		p.file = f
		if _, err := f.WriteString(filename); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to write inline JSON: %w", err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to seek: %w", err)
		}
	case filename == "" || filename == "-":
		p.file = os.Stdin
	default:
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		p.file = f
		p.isJSONL = strings.HasSuffix(filename, ".jsonl") || strings.HasSuffix(filename, ".ndjson")
	}

	if p.isJSONL {
		p.scanner = bufio.NewScanner(p.file)
	} else {
		p.bufReader = bufio.NewReader(p.file)
		p.decoder = json.NewDecoder(p.bufReader)
	}
	return p, nil
}

// Close closes the underlying file and cleans up any temporary files
func (p *Parser) Close() error {
	var err error
	if p.file != os.Stdin {
		err = p.file.Close()
	}
	if p.tmpFile != "" {
		os.Remove(p.tmpFile)
	}
	return err
}

// IsJSONL returns whether the parser is treating the file as JSONL
func (p *Parser) IsJSONL() bool {
	return p.isJSONL
}

// Read returns the next record, or io.EOF once the input is exhausted.
func (p *Parser) Read() (Record, error) {
	if p.isJSONL {
		return p.readLine()
	}

	if !p.startChecked {
		if err := p.checkStart(); err != nil {
			return nil, err
		}
	}

	if p.inArray && !p.decoder.More() {
		t, err := p.decoder.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := t.(json.Delim); ok && delim == ']' {
			p.inArray = false
			return nil, io.EOF
		}
		return nil, fmt.Errorf("expected array end, got %v", t)
	}

	var data interface{}
	if err := p.decoder.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode JSON record: %w", err)
	}
	obj, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("record is not an object: %T", data)
	}
	return obj, nil
}

// checkStart peeks past leading whitespace and consumes an opening '['.
func (p *Parser) checkStart() error {
	for {
		b, err := p.bufReader.Peek(1)
		if err != nil {
			return err
		}
		switch b[0] {
		case ' ', '\n', '\t', '\r':
			p.bufReader.ReadByte()
			continue
		case '[':
			p.inArray = true
			if _, err := p.decoder.Token(); err != nil {
				return err
			}
		}
		p.startChecked = true
		return nil
	}
}

func (p *Parser) readLine() (Record, error) {
	for p.scanner.Scan() {
		p.line++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" {
			continue
		}
		var record Record
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSONL record on line %d: %w", p.line, err)
		}
		return record, nil
	}
	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading JSONL file: %w", err)
	}
	return nil, io.EOF
}

// ReadAll reads every remaining record
func (p *Parser) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := p.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// WriteJSON writes values as a single JSON array
func WriteJSON(w io.Writer, values []interface{}, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if values == nil {
		values = []interface{}{}
	}
	return encoder.Encode(values)
}

// WriteJSONL writes values as JSON Lines
func WriteJSONL(w io.Writer, values []interface{}, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	for _, v := range values {
		if err := encoder.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
