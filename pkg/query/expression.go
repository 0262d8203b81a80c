package query

import (
	"strings"

	"github.com/bisegni/rowset/pkg/database"
)

// Truth is the outcome of deciding an expression from a single field.
type Truth int

const (
	Unknown Truth = iota
	False
	True
)

func (t Truth) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

func truth(b bool) Truth {
	if b {
		return True
	}
	return False
}

// Expression is a boolean expression that can be evaluated against a record
type Expression interface {
	// Evaluate matches a whole record: a map, an OrderedMap or a parser.Record.
	Evaluate(record interface{}) bool
	// Decide evaluates the expression knowing only that field holds value.
	// Conditions on other fields are Unknown.
	Decide(field string, value interface{}) Truth
	String() string
}

// Condition is a simple filter (leaf node)
type Condition struct {
	Filter *Filter
}

func (c *Condition) Evaluate(record interface{}) bool {
	return c.Filter.Match(record)
}

func (c *Condition) Decide(field string, value interface{}) Truth {
	field = strings.TrimPrefix(field, ".")
	switch {
	case c.Filter.Field == field:
		return truth(c.Filter.matchValue(value))
	case strings.HasPrefix(c.Filter.Field, field+"."):
		nested, err := database.Lookup(value, strings.TrimPrefix(c.Filter.Field, field+"."))
		if err != nil {
			return truth(c.Filter.Operator == OpIsNull)
		}
		return truth(c.Filter.matchValue(nested))
	default:
		return Unknown
	}
}

func (c *Condition) String() string {
	return c.Filter.String()
}

// AndExpression represents Logical AND
type AndExpression struct {
	Left  Expression
	Right Expression
}

func (a *AndExpression) Evaluate(record interface{}) bool {
	return a.Left.Evaluate(record) && a.Right.Evaluate(record)
}

func (a *AndExpression) Decide(field string, value interface{}) Truth {
	l, r := a.Left.Decide(field, value), a.Right.Decide(field, value)
	switch {
	case l == False || r == False:
		return False
	case l == True && r == True:
		return True
	default:
		return Unknown
	}
}

func (a *AndExpression) String() string {
	return "(" + a.Left.String() + " AND " + a.Right.String() + ")"
}

// OrExpression represents Logical OR
type OrExpression struct {
	Left  Expression
	Right Expression
}

func (o *OrExpression) Evaluate(record interface{}) bool {
	return o.Left.Evaluate(record) || o.Right.Evaluate(record)
}

func (o *OrExpression) Decide(field string, value interface{}) Truth {
	l, r := o.Left.Decide(field, value), o.Right.Decide(field, value)
	switch {
	case l == True || r == True:
		return True
	case l == False && r == False:
		return False
	default:
		return Unknown
	}
}

func (o *OrExpression) String() string {
	return "(" + o.Left.String() + " OR " + o.Right.String() + ")"
}

// NotExpression represents Logical NOT
type NotExpression struct {
	Inner Expression
}

func (n *NotExpression) Evaluate(record interface{}) bool {
	return !n.Inner.Evaluate(record)
}

func (n *NotExpression) Decide(field string, value interface{}) Truth {
	switch n.Inner.Decide(field, value) {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func (n *NotExpression) String() string {
	return "NOT " + n.Inner.String()
}
