package rowset

import (
	"io"
	"time"
)

// MoveToInsertRow starts staging a new row. Until InsertRow or
// MoveToCurrentRow every Update is checked against the filter first.
func (r *FilteredRowSet) MoveToInsertRow() error {
	r.onInsertRow = true
	return r.cursor.MoveToInsertRow()
}

// MoveToCurrentRow abandons the staged row.
func (r *FilteredRowSet) MoveToCurrentRow() error {
	r.onInsertRow = false
	return r.cursor.MoveToCurrentRow()
}

// InsertRow commits the staged row. Values were checked as they were written,
// so the row is not checked again.
func (r *FilteredRowSet) InsertRow() error {
	r.onInsertRow = false
	if err := r.cursor.InsertRow(); err != nil {
		return err
	}
	r.log().Debug("row inserted", "size", r.cursor.Size())
	return nil
}

func (r *FilteredRowSet) UpdateNull(column int) error {
	return r.update("UpdateNull", column, nil, nil)
}

func (r *FilteredRowSet) UpdateBool(column int, x bool) error {
	return r.update("UpdateBool", column, x, x)
}

func (r *FilteredRowSet) UpdateInt(column int, x int) error {
	return r.update("UpdateInt", column, x, x)
}

func (r *FilteredRowSet) UpdateInt64(column int, x int64) error {
	return r.update("UpdateInt64", column, x, x)
}

func (r *FilteredRowSet) UpdateFloat64(column int, x float64) error {
	return r.update("UpdateFloat64", column, x, x)
}

func (r *FilteredRowSet) UpdateString(column int, x string) error {
	return r.update("UpdateString", column, x, x)
}

// UpdateBytes writes x; the filter sees the decimal value of each byte
// concatenated, so []byte{1, 23} is checked as "123".
func (r *FilteredRowSet) UpdateBytes(column int, x []byte) error {
	return r.update("UpdateBytes", column, x, bytesValue(x))
}

func (r *FilteredRowSet) UpdateTime(column int, x time.Time) error {
	return r.update("UpdateTime", column, x, x)
}

// UpdateReader writes a stream. The filter receives the same reader and must
// not consume it unless it owns the stream's interpretation.
func (r *FilteredRowSet) UpdateReader(column int, x io.Reader) error {
	return r.update("UpdateReader", column, x, x)
}

// UpdateObject writes an arbitrary value.
func (r *FilteredRowSet) UpdateObject(column int, x interface{}) error {
	return r.update("UpdateObject", column, x, checkedValue(x))
}

// UpdateByName writes x to the named column.
func (r *FilteredRowSet) UpdateByName(name string, x interface{}) error {
	column, err := r.cursor.FindColumn(name)
	if err != nil {
		return err
	}
	return r.update("UpdateByName", column, x, checkedValue(x))
}

// update writes value to column after the filter accepted checked, the form
// of value the filter is shown.
func (r *FilteredRowSet) update(op string, column int, value, checked interface{}) error {
	if r.onInsertRow && r.filter != nil {
		ok, err := r.filter.EvaluateValue(checked, column)
		if err != nil {
			return err
		}
		if !ok {
			r.log().Warn("staged value rejected by filter", "op", op, "column", column)
			return &Error{Kind: InvalidOperation, Op: op, Column: column, Message: "value not allowed by filter"}
		}
	}
	return r.cursor.Update(column, value)
}

func checkedValue(x interface{}) interface{} {
	if b, ok := x.([]byte); ok {
		return bytesValue(b)
	}
	return x
}
