package query

import (
	"fmt"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/rowset"
)

var _ rowset.Predicate = (*Predicate)(nil)

// Predicate adapts a WHERE expression to a row set filter.
//
// Rows under the cursor are matched against the whole expression. A single
// staged value is rejected only when the expression is certainly false
// given that column alone.
type Predicate struct {
	expr    Expression
	columns []string
}

// NewPredicate binds expr to the column names of a row set, in column order.
func NewPredicate(expr Expression, columns []string) *Predicate {
	return &Predicate{expr: expr, columns: append([]string(nil), columns...)}
}

// Compile parses where and binds it to columns.
func Compile(where string, columns []string) (*Predicate, error) {
	expr, err := ParseExpression(where)
	if err != nil {
		return nil, err
	}
	return NewPredicate(expr, columns), nil
}

func (p *Predicate) Evaluate(cur database.Cursor) (bool, error) {
	row, err := cur.Current()
	if err != nil {
		return false, err
	}
	return p.expr.Evaluate(row.Primitive()), nil
}

func (p *Predicate) EvaluateValue(value interface{}, column int) (bool, error) {
	if column < 1 || column > len(p.columns) {
		return false, fmt.Errorf("%w: %d", database.ErrColumnIndex, column)
	}
	return p.expr.Decide(p.columns[column-1], value) != False, nil
}

// Expression returns the compiled expression.
func (p *Predicate) Expression() Expression {
	return p.expr
}

func (p *Predicate) String() string {
	return p.expr.String()
}
