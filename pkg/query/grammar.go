package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// AST for Participle Parser

type ASTExpression struct {
	Or []*ASTAndCondition `parser:"@@ ('OR' @@)*"`
}

type ASTAndCondition struct {
	And []*ASTCondition `parser:"@@ ('AND' @@)*"`
}

type ASTCondition struct {
	Not     *ASTCondition  `parser:"  'NOT' @@"`
	Grouped *ASTExpression `parser:"| '(' @@ ')'"`
	Compare *ASTComparison `parser:"| @@"`
}

type ASTComparison struct {
	Field   *ASTPath    `parser:"@@"`
	Is      *string     `parser:"( @'IS'"`
	NotNull bool        `parser:"  @'NOT'? 'NULL'"`
	Op      *string     `parser:"| @(Operator | 'CONTAINS')"`
	Value   *ASTLiteral `parser:"  @@ )"`
}

type ASTPath struct {
	Parts []string `parser:"'.'? @Ident ('.' (@Ident | @Number))*"`
}

func (p *ASTPath) String() string {
	return strings.Join(p.Parts, ".")
}

type ASTLiteral struct {
	Number *float64 `parser:"  @Number"`
	StrVal *string  `parser:"| @String"`
	Bool   *string  `parser:"| @('TRUE' | 'FALSE')"`
	Null   bool     `parser:"| @'NULL'"`
}

func (l *ASTLiteral) ToValue() interface{} {
	switch {
	case l.Number != nil:
		return *l.Number
	case l.StrVal != nil:
		return *l.StrVal
	case l.Bool != nil:
		return strings.EqualFold(*l.Bool, "TRUE")
	default:
		return nil
	}
}

var (
	whereLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IS|NULL|TRUE|FALSE|CONTAINS)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
		{Name: "Operator", Pattern: `>=|<=|!=|<>|~=|==|[=<>]`},
		{Name: "Punct", Pattern: `[.()]`},
		{Name: "Number", Pattern: `[-+]?\d*\.?\d+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	whereParser = participle.MustBuild[ASTExpression](
		participle.Lexer(whereLexer),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// ParseExpression parses a boolean filter such as
// "age >= 18 AND (status = 'active' OR NOT tags CONTAINS 'trial')".
// AND binds tighter than OR, NOT tighter than both.
func ParseExpression(input string) (Expression, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty expression")
	}

	ast, err := whereParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return ast.ToExpression(), nil
}

// Map AST to Expression interface

func (e *ASTExpression) ToExpression() Expression {
	expr := e.Or[0].ToExpression()
	for _, or := range e.Or[1:] {
		expr = &OrExpression{Left: expr, Right: or.ToExpression()}
	}
	return expr
}

func (a *ASTAndCondition) ToExpression() Expression {
	expr := a.And[0].ToExpression()
	for _, and := range a.And[1:] {
		expr = &AndExpression{Left: expr, Right: and.ToExpression()}
	}
	return expr
}

func (c *ASTCondition) ToExpression() Expression {
	switch {
	case c.Not != nil:
		return &NotExpression{Inner: c.Not.ToExpression()}
	case c.Grouped != nil:
		return c.Grouped.ToExpression()
	default:
		return c.Compare.ToExpression()
	}
}

func (c *ASTComparison) ToExpression() Expression {
	field := c.Field.String()
	if c.Is != nil {
		if c.NotNull {
			return &Condition{Filter: NewFilter(field, OpIsNotNull, nil)}
		}
		return &Condition{Filter: NewFilter(field, OpIsNull, nil)}
	}
	return &Condition{Filter: NewFilter(field, normalizeOperator(*c.Op), c.Value.ToValue())}
}

func normalizeOperator(op string) string {
	switch strings.ToUpper(op) {
	case "==":
		return "="
	case "<>":
		return "!="
	case "~=", "CONTAINS":
		return OpContains
	default:
		return op
	}
}

func quote(v interface{}) string {
	switch val := v.(type) {
	case string:
		return "'" + val + "'"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case nil:
		return "NULL"
	default:
		return fmt.Sprintf("%v", val)
	}
}
