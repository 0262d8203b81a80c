package database

// Row represents a single record in the virtual table.
// It wraps the underlying data (an OrderedMap for cursor rows, a map for JSON records).
type Row interface {
	// Get returns the value of a field.
	// Supports dot notation for nested fields.
	Get(field string) (interface{}, error)
	// Primitive returns the underlying data structure.
	Primitive() interface{}
}

// RowIterator allows iterating over rows in a table.
type RowIterator interface {
	// Next advances the iterator. Returns false if no more rows or error.
	Next() bool
	// Row returns the current row.
	Row() Row
	// Error returns any error that occurred during iteration.
	Error() error
	// Close releases resources.
	Close() error
}

// Table represents a dataset that can be scanned.
type Table interface {
	// Iterate returns a new iterator for scanning the table.
	Iterate() (RowIterator, error)
}

// ScrollType describes which movements a cursor allows.
type ScrollType int

const (
	// ScrollInsensitive cursors move in any direction over a fixed snapshot.
	ScrollInsensitive ScrollType = iota
	// ForwardOnly cursors only advance with Next.
	ForwardOnly
)

func (s ScrollType) String() string {
	if s == ForwardOnly {
		return "forward-only"
	}
	return "scroll-insensitive"
}

// Cursor is a scrollable, updatable position over an ordered, finite sequence of rows.
//
// Row ordinals are 1-based. Row returns 0 when the cursor is before the first
// row, after the last row or parked on the insert row.
type Cursor interface {
	// Next moves to the following row. It reports false once the cursor is after the last row.
	Next() (bool, error)
	// Previous moves to the preceding row. It reports false once the cursor is before the first row.
	Previous() (bool, error)
	// First moves to the first row. It reports false on an empty cursor.
	First() (bool, error)
	// Last moves to the last row. It reports false on an empty cursor.
	Last() (bool, error)
	BeforeFirst() error
	AfterLast() error

	Row() int
	Size() int
	IsBeforeFirst() bool
	IsAfterLast() bool
	IsForwardOnly() bool

	// Columns returns the column names, index 0 holding column 1.
	Columns() []string
	// FindColumn maps a column name to its 1-based index.
	FindColumn(name string) (int, error)
	// Value returns a column of the current row, or of the insert row while staging.
	Value(column int) (interface{}, error)
	// Current returns the current row.
	Current() (Row, error)

	// MoveToInsertRow parks the cursor on the staging row.
	MoveToInsertRow() error
	// MoveToCurrentRow leaves the staging row without committing it.
	MoveToCurrentRow() error
	// InsertRow commits the staging row.
	InsertRow() error
	// Update writes a column of the insert row while staging, or of the current row otherwise.
	Update(column int, value interface{}) error

	// NotifyCursorMoved tells every registered listener that the position changed.
	NotifyCursorMoved()
}

// Listener is notified about cursor events.
type Listener interface {
	CursorMoved(c Cursor)
	RowInserted(c Cursor)
}

// ListenerFuncs adapts plain functions to a Listener. Nil members are skipped.
type ListenerFuncs struct {
	OnMove   func(c Cursor)
	OnInsert func(c Cursor)
}

func (l ListenerFuncs) CursorMoved(c Cursor) {
	if l.OnMove != nil {
		l.OnMove(c)
	}
}

func (l ListenerFuncs) RowInserted(c Cursor) {
	if l.OnInsert != nil {
		l.OnInsert(c)
	}
}
