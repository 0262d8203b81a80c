package rowset

import (
	"strconv"
	"strings"

	"github.com/bisegni/rowset/pkg/database"
)

// Predicate decides which rows are visible through a FilteredRowSet.
//
// Both methods may be called many times per navigation call and must not
// move the cursor. A returned error aborts the navigation in progress.
type Predicate interface {
	// Evaluate reports whether the row under cur passes the filter.
	Evaluate(cur database.Cursor) (bool, error)
	// EvaluateValue reports whether value may be written to the 1-based column.
	//
	// value is one of nil, bool, int, int64, float64, string, time.Time,
	// io.Reader or an arbitrary object. Byte slices arrive as the
	// concatenated decimal representation of their bytes.
	EvaluateValue(value interface{}, column int) (bool, error)
}

// Funcs adapts plain functions to a Predicate. A nil member accepts everything.
type Funcs struct {
	Row   func(cur database.Cursor) (bool, error)
	Value func(value interface{}, column int) (bool, error)
}

func (f Funcs) Evaluate(cur database.Cursor) (bool, error) {
	if f.Row == nil {
		return true, nil
	}
	return f.Row(cur)
}

func (f Funcs) EvaluateValue(value interface{}, column int) (bool, error) {
	if f.Value == nil {
		return true, nil
	}
	return f.Value(value, column)
}

// ColumnFunc builds a Predicate that applies match to one column, both for
// rows under the cursor and for values staged into that column. Values for
// other columns are accepted.
func ColumnFunc(column int, match func(value interface{}) bool) Predicate {
	return Funcs{
		Row: func(cur database.Cursor) (bool, error) {
			v, err := cur.Value(column)
			if err != nil {
				return false, err
			}
			return match(v), nil
		},
		Value: func(value interface{}, c int) (bool, error) {
			if c != column {
				return true, nil
			}
			return match(value), nil
		},
	}
}

// bytesValue renders b as the decimal value of each byte in sequence.
func bytesValue(b []byte) string {
	var sb strings.Builder
	for _, x := range b {
		sb.WriteString(strconv.Itoa(int(x)))
	}
	return sb.String()
}
