package query

import (
	"testing"

	"github.com/bisegni/rowset/pkg/parser"
)

func TestBooleanLogic(t *testing.T) {
	record := parser.Record{
		"val":    float64(15),
		"status": "active",
		"type":   "normal",
		"tags":   []interface{}{"trial", "eu"},
		"owner":  map[string]interface{}{"name": "Alice"},
	}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{
			name:     "Simple AND - True",
			query:    "val > 10 AND status = 'active'",
			expected: true,
		},
		{
			name:     "Simple AND - False",
			query:    "val > 20 AND status = 'active'",
			expected: false,
		},
		{
			name:     "Simple OR - True",
			query:    "val > 20 OR status = 'active'",
			expected: true,
		},
		{
			name:     "Simple OR - False",
			query:    "val > 20 OR status = 'inactive'",
			expected: false,
		},
		{
			name: "AND with OR - Precedence AND > OR",
			// (True AND False) OR True => False OR True => True
			query:    "val > 10 AND status = 'inactive' OR type = 'normal'",
			expected: true,
		},
		{
			name: "AND with OR - Precedence AND > OR (Case 2)",
			// True OR (False AND True) => True OR False => True
			query:    "val > 10 OR status = 'inactive' AND type = 'error'",
			expected: true,
		},
		{
			name:     "Nested Logic",
			query:    "(val > 10 AND status = 'active') OR type = 'critical'",
			expected: true,
		},
		{
			name:     "Grouping overrides precedence",
			query:    "val > 20 AND (status = 'active' OR type = 'normal')",
			expected: false,
		},
		{
			name:     "NOT",
			query:    "NOT status = 'inactive'",
			expected: true,
		},
		{
			name:     "Lowercase keywords",
			query:    "val >= 15 and not type == 'error'",
			expected: true,
		},
		{
			name:     "Array any-match",
			query:    "tags = 'eu'",
			expected: true,
		},
		{
			name:     "Contains",
			query:    "status CONTAINS 'act' AND type ~= 'orm'",
			expected: true,
		},
		{
			name:     "Nested path",
			query:    "owner.name = \"Alice\"",
			expected: true,
		},
		{
			name:     "Array index",
			query:    ".tags.0 = 'trial'",
			expected: true,
		},
		{
			name:     "Missing field IS NULL",
			query:    "deleted IS NULL AND val IS NOT NULL",
			expected: true,
		},
		{
			name:     "Not equal",
			query:    "type <> 'normal'",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpression(tt.query)
			if err != nil {
				t.Fatalf("ParseExpression failed: %v", err)
			}

			result := expr.Evaluate(record)
			if result != tt.expected {
				t.Errorf("Evaluate(%s) = %v, want %v", expr, result, tt.expected)
			}
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "val >", "AND x = 1", "(val = 1", "val = 1 OR"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseExpression(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}

func TestExpressionString(t *testing.T) {
	expr, err := ParseExpression("a = 1 AND NOT b IS NULL OR c CONTAINS 'x'")
	if err != nil {
		t.Fatal(err)
	}
	want := "((a = 1 AND NOT b IS NULL) OR c CONTAINS 'x')"
	if got := expr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		query string
		field string
		value interface{}
		want  Truth
	}{
		{"qty > 0", "qty", 5, True},
		{"qty > 0", "qty", -5, False},
		{"qty > 0", "name", "x", Unknown},
		{"qty > 0 AND name = 'a'", "qty", -1, False},
		{"qty > 0 AND name = 'a'", "qty", 1, Unknown},
		{"qty > 0 OR name = 'a'", "qty", 1, True},
		{"qty > 0 OR name = 'a'", "qty", -1, Unknown},
		{"NOT qty > 0", "qty", 1, False},
		{"NOT name = 'a'", "qty", 1, Unknown},
		{"owner.name = 'Alice'", "owner", map[string]interface{}{"name": "Alice"}, True},
		{"owner.name IS NULL", "owner", map[string]interface{}{}, True},
		{"note IS NULL", "note", nil, True},
		{"code = '123255'", "code", "123255", True},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.field, func(t *testing.T) {
			expr, err := ParseExpression(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if got := expr.Decide(tt.field, tt.value); got != tt.want {
				t.Errorf("Decide(%s, %v) = %v, want %v", tt.field, tt.value, got, tt.want)
			}
		})
	}
}
