package parser

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadAll(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    int
		jsonl   bool
	}{
		{name: "array", file: "a.json", content: `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25}]`, want: 2},
		{name: "single object", file: "one.json", content: `{"name": "Alice"}`, want: 1},
		{name: "concatenated", file: "concat.json", content: `{"name": "Alice"}{"name": "Bob"}`, want: 2},
		{name: "leading whitespace", file: "ws.json", content: "\n\t [ {\"name\": \"Alice\"} ]", want: 1},
		{name: "empty file", file: "empty.json", content: "", want: 0},
		{name: "empty array", file: "empty_array.json", content: "[]", want: 0},
		{name: "jsonl", file: "rows.jsonl", content: "{\"name\": \"Alice\"}\n{\"name\": \"Bob\"}", want: 2, jsonl: true},
		{name: "jsonl empty lines", file: "gaps.jsonl", content: "{\"name\": \"Alice\"}\n\n{\"name\": \"Bob\"}\n", want: 2, jsonl: true},
		{name: "ndjson", file: "rows.ndjson", content: "{\"id\": 1}\n", want: 1, jsonl: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParser(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("NewParser failed: %v", err)
			}
			defer p.Close()

			if p.IsJSONL() != tt.jsonl {
				t.Errorf("IsJSONL() = %v, want %v", p.IsJSONL(), tt.jsonl)
			}

			records, err := p.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("Expected %d records, got %d", tt.want, len(records))
			}
		})
	}
}

func TestReadAllMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "truncated array", file: "bad.json", content: `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25`},
		{name: "bad jsonl line", file: "bad.jsonl", content: "{\"name\": \"Alice\"}\n{\"name\": \"Bob\", \"age\": 25\n{\"name\": \"Charlie\"}"},
		{name: "array of scalars", file: "scalars.json", content: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParser(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()

			if _, err := p.ReadAll(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestReadNested(t *testing.T) {
	path := writeFile(t, "nested.json", `[
		{"name": "Alice", "info": {"city": "New York", "hobbies": ["reading", "cycling"]}},
		{"name": "Bob", "info": {"city": "London", "hobbies": ["drawing"]}}
	]`)

	p, err := NewParser(path)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	rec, err := p.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	info, ok := rec["info"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected info to be a map, got %T", rec["info"])
	}
	if info["city"] != "New York" {
		t.Errorf("Expected city New York, got %v", info["city"])
	}
}

func TestReadStreaming(t *testing.T) {
	sources := map[string]string{
		"stream.jsonl": "{\"id\": 1}\n{\"id\": 2}\n{\"id\": 3}",
		"stream.json":  `[{"id": 1}, {"id": 2}, {"id": 3}]`,
	}

	for file, content := range sources {
		t.Run(file, func(t *testing.T) {
			p, err := NewParser(writeFile(t, file, content))
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()

			count := 0
			for {
				rec, err := p.Read()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("Read failed: %v", err)
				}
				count++
				if int(rec["id"].(float64)) != count {
					t.Errorf("Expected id %d, got %v", count, rec["id"])
				}
			}
			if count != 3 {
				t.Errorf("Expected 3 records, got %d", count)
			}
		})
	}
}

func TestInlineJSON(t *testing.T) {
	p, err := NewParser(`[{"name": "Alice"}, {"name": "Bob"}]`)
	if err != nil {
		t.Fatal(err)
	}
	tmp := p.tmpFile

	records, err := p.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}

	p.Close()
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("Expected temp file %s to be removed", tmp)
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	values := []interface{}{Record{"id": 1}, Record{"id": 2}}
	if err := WriteJSONL(&buf, values, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != `{"id":1}` {
		t.Errorf("Unexpected first line %q", lines[0])
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil, false); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected [], got %q", buf.String())
	}
}
