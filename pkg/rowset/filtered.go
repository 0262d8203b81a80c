// Package rowset layers a predicate filter over a scrollable, updatable cursor.
//
// A FilteredRowSet moves over the rows of a database.Cursor that pass its
// Predicate, counting only those rows as positions, and checks values staged
// on the insert row against the same Predicate before they are written.
//
// A FilteredRowSet is not safe for concurrent use.
package rowset

import (
	"log/slog"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/logging"
)

// FilteredRowSet wraps a cursor it does not own.
type FilteredRowSet struct {
	cursor      database.Cursor
	filter      Predicate
	onInsertRow bool
	logger      *slog.Logger
}

// Option configures a FilteredRowSet.
type Option func(*FilteredRowSet)

// WithFilter attaches p at construction time.
func WithFilter(p Predicate) Option {
	return func(r *FilteredRowSet) {
		r.filter = p
	}
}

// WithLogger overrides the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *FilteredRowSet) {
		r.logger = l
	}
}

// New wraps cur. Without a filter every row is visible.
func New(cur database.Cursor, opts ...Option) *FilteredRowSet {
	r := &FilteredRowSet{cursor: cur}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetFilter replaces the active predicate; nil disables filtering.
// The cursor is not repositioned.
func (r *FilteredRowSet) SetFilter(p Predicate) {
	r.filter = p
}

// Filter returns the active predicate, or nil.
func (r *FilteredRowSet) Filter() Predicate {
	return r.filter
}

// Cursor returns the wrapped cursor.
func (r *FilteredRowSet) Cursor() database.Cursor {
	return r.cursor
}

// OnInsertRow reports whether values written now are checked as staged values.
func (r *FilteredRowSet) OnInsertRow() bool {
	return r.onInsertRow
}

// Next advances to the following visible row.
func (r *FilteredRowSet) Next() (bool, error) {
	if r.filter == nil {
		return r.cursor.Next()
	}

	skipped := 0
	defer func() { r.logSkipped("Next", skipped) }()

	// The bound guards against a cursor that never reports exhaustion.
	for n := r.cursor.Row(); n <= r.cursor.Size(); n++ {
		ok, err := r.cursor.Next()
		if err != nil || !ok {
			return false, err
		}
		pass, err := r.filter.Evaluate(r.cursor)
		if err != nil {
			return false, err
		}
		if pass {
			return true, nil
		}
		skipped++
	}
	return false, nil
}

// Previous moves back to the preceding visible row.
func (r *FilteredRowSet) Previous() (bool, error) {
	if r.filter == nil {
		return r.cursor.Previous()
	}

	skipped := 0
	defer func() { r.logSkipped("Previous", skipped) }()

	start := r.cursor.Row()
	if start == 0 && !r.cursor.IsBeforeFirst() {
		start = r.cursor.Size() + 1
	}
	for n := start; n > 0; n-- {
		ok, err := r.cursor.Previous()
		if err != nil || !ok {
			return false, err
		}
		pass, err := r.filter.Evaluate(r.cursor)
		if err != nil {
			return false, err
		}
		if pass {
			return true, nil
		}
		skipped++
	}
	return false, nil
}

// First moves to the first visible row.
func (r *FilteredRowSet) First() (bool, error) {
	ok, err := r.cursor.First()
	if err != nil || r.filter == nil {
		return ok, err
	}

	skipped := 0
	defer func() { r.logSkipped("First", skipped) }()

	for ok {
		pass, err := r.filter.Evaluate(r.cursor)
		if err != nil {
			return false, err
		}
		if pass {
			return true, nil
		}
		skipped++
		if ok, err = r.cursor.Next(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// Last moves to the last visible row.
func (r *FilteredRowSet) Last() (bool, error) {
	ok, err := r.cursor.Last()
	if err != nil || r.filter == nil {
		return ok, err
	}

	skipped := 0
	defer func() { r.logSkipped("Last", skipped) }()

	for ok {
		pass, err := r.filter.Evaluate(r.cursor)
		if err != nil {
			return false, err
		}
		if pass {
			return true, nil
		}
		skipped++
		if ok, err = r.cursor.Previous(); err != nil {
			return false, err
		}
	}
	return false, nil
}

// Relative moves n visible rows forward (n > 0) or backward (n < 0).
//
// It stops with false as soon as the cursor runs past either end; the cursor
// stays wherever the scan left it. Relative(0) does nothing and reports
// false. Every other call notifies the cursor listeners.
func (r *FilteredRowSet) Relative(n int) (moved bool, err error) {
	if r.cursor.IsForwardOnly() {
		return false, invalidOperation("Relative", "cursor is forward-only")
	}
	if n == 0 {
		return false, nil
	}
	defer r.cursor.NotifyCursorMoved()

	for i := 0; i < n; i++ {
		if r.cursor.IsAfterLast() {
			return false, nil
		}
		if moved, err = r.Next(); err != nil {
			return false, err
		}
	}
	for i := n; i < 0; i++ {
		if r.cursor.IsBeforeFirst() {
			return false, nil
		}
		if moved, err = r.Previous(); err != nil {
			return false, err
		}
	}
	return moved, nil
}

// Absolute moves to the n-th visible row, counting from the end when n is
// negative: Absolute(1) is the first visible row, Absolute(-1) the last.
// The visible rows are rescanned from the matching end on every call.
func (r *FilteredRowSet) Absolute(n int) (moved bool, err error) {
	if n == 0 {
		return false, invalidOperation("Absolute", "row 0 does not exist")
	}
	if r.cursor.IsForwardOnly() {
		return false, invalidOperation("Absolute", "cursor is forward-only")
	}
	defer r.cursor.NotifyCursorMoved()

	if n > 0 {
		if moved, err = r.First(); err != nil {
			return false, err
		}
		for i := 1; i < n; i++ {
			if r.cursor.IsAfterLast() {
				return false, nil
			}
			if moved, err = r.Next(); err != nil {
				return false, err
			}
		}
		return moved, nil
	}

	if moved, err = r.Last(); err != nil {
		return false, err
	}
	for i := -1; i > n; i-- {
		if r.cursor.IsBeforeFirst() {
			return false, nil
		}
		if moved, err = r.Previous(); err != nil {
			return false, err
		}
	}
	return moved, nil
}

// Scan calls fn with every visible row in order, starting before the first
// row. A forward-only cursor is scanned from its current position.
func (r *FilteredRowSet) Scan(fn func(row database.Row) error) error {
	if !r.cursor.IsForwardOnly() {
		if err := r.cursor.BeforeFirst(); err != nil {
			return err
		}
	}
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		row, err := r.cursor.Current()
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func (r *FilteredRowSet) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.WithComponent("rowset")
}

func (r *FilteredRowSet) logSkipped(op string, skipped int) {
	if skipped == 0 {
		return
	}
	r.log().Debug("rows skipped by filter", "op", op, "skipped", skipped, "row", r.cursor.Row())
}
