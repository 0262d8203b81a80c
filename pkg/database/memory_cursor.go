package database

import (
	"fmt"
)

var _ Cursor = (*MemoryCursor)(nil)

// MemoryCursor is a disconnected, scrollable and updatable row set held in memory.
//
// Positions: 0 is before the first row, Size()+1 is after the last row.
// While staging a new row the previous position is remembered and restored by
// MoveToCurrentRow, InsertRow or any movement.
type MemoryCursor struct {
	columns []string
	rows    [][]interface{}
	pos     int
	scroll  ScrollType

	onInsert  bool
	insertRow []interface{}
	savedPos  int

	listeners []Listener
	closed    bool
}

// Option configures a MemoryCursor.
type Option func(*MemoryCursor)

// WithScrollType sets the scroll capability of the cursor.
func WithScrollType(s ScrollType) Option {
	return func(c *MemoryCursor) {
		c.scroll = s
	}
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(c *MemoryCursor) {
		c.listeners = append(c.listeners, l)
	}
}

// NewMemoryCursor creates an empty cursor with the given columns, positioned before the first row.
func NewMemoryCursor(columns []string, opts ...Option) *MemoryCursor {
	c := &MemoryCursor{
		columns: append([]string(nil), columns...),
		scroll:  ScrollInsensitive,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append adds a row at the end. Missing trailing values are nil.
func (c *MemoryCursor) Append(values ...interface{}) error {
	if c.closed {
		return ErrClosed
	}
	if len(values) > len(c.columns) {
		return fmt.Errorf("%w: row has %d values for %d columns", ErrColumnIndex, len(values), len(c.columns))
	}
	row := make([]interface{}, len(c.columns))
	copy(row, values)
	if c.pos > len(c.rows) {
		c.pos++ // stay after last
	}
	if c.savedPos > len(c.rows) {
		c.savedPos++
	}
	c.rows = append(c.rows, row)
	return nil
}

// AddListener registers l for cursor events.
func (c *MemoryCursor) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *MemoryCursor) Next() (bool, error) {
	if err := c.move(); err != nil {
		return false, err
	}
	if c.pos <= len(c.rows) {
		c.pos++
	}
	return c.pos <= len(c.rows), nil
}

func (c *MemoryCursor) Previous() (bool, error) {
	if err := c.scrollable(); err != nil {
		return false, err
	}
	if c.pos > 0 {
		c.pos--
	}
	return c.pos > 0, nil
}

func (c *MemoryCursor) First() (bool, error) {
	if err := c.scrollable(); err != nil {
		return false, err
	}
	if len(c.rows) == 0 {
		c.pos = 0
		return false, nil
	}
	c.pos = 1
	return true, nil
}

func (c *MemoryCursor) Last() (bool, error) {
	if err := c.scrollable(); err != nil {
		return false, err
	}
	c.pos = len(c.rows)
	return c.pos > 0, nil
}

func (c *MemoryCursor) BeforeFirst() error {
	if err := c.scrollable(); err != nil {
		return err
	}
	c.pos = 0
	return nil
}

func (c *MemoryCursor) AfterLast() error {
	if err := c.scrollable(); err != nil {
		return err
	}
	c.pos = len(c.rows) + 1
	return nil
}

func (c *MemoryCursor) Row() int {
	if c.onInsert || !c.valid() {
		return 0
	}
	return c.pos
}

func (c *MemoryCursor) Size() int {
	return len(c.rows)
}

func (c *MemoryCursor) IsBeforeFirst() bool {
	return !c.onInsert && c.pos == 0
}

func (c *MemoryCursor) IsAfterLast() bool {
	return !c.onInsert && c.pos > len(c.rows)
}

func (c *MemoryCursor) IsForwardOnly() bool {
	return c.scroll == ForwardOnly
}

// ScrollType returns the scroll capability of the cursor.
func (c *MemoryCursor) ScrollType() ScrollType {
	return c.scroll
}

func (c *MemoryCursor) Columns() []string {
	return append([]string(nil), c.columns...)
}

func (c *MemoryCursor) FindColumn(name string) (int, error) {
	for i, col := range c.columns {
		if col == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

func (c *MemoryCursor) Value(column int) (interface{}, error) {
	row, err := c.target(column)
	if err != nil {
		return nil, err
	}
	return row[column-1], nil
}

func (c *MemoryCursor) Current() (Row, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.onInsert {
		return NewJSONRow(NewOrderedMap(c.columns, c.insertRow)), nil
	}
	if !c.valid() {
		return nil, ErrNoCurrentRow
	}
	return NewJSONRow(NewOrderedMap(c.columns, c.rows[c.pos-1])), nil
}

func (c *MemoryCursor) MoveToInsertRow() error {
	if c.closed {
		return ErrClosed
	}
	if !c.onInsert {
		c.savedPos = c.pos
	}
	c.onInsert = true
	c.insertRow = make([]interface{}, len(c.columns))
	return nil
}

func (c *MemoryCursor) MoveToCurrentRow() error {
	if c.closed {
		return ErrClosed
	}
	c.leaveInsertRow()
	return nil
}

// InsertRow appends the staged values as the new last row and returns to the
// position held before MoveToInsertRow.
func (c *MemoryCursor) InsertRow() error {
	if c.closed {
		return ErrClosed
	}
	if !c.onInsert {
		return ErrNotOnInsertRow
	}
	staged := c.insertRow
	c.leaveInsertRow()
	if err := c.Append(staged...); err != nil {
		return err
	}
	for _, l := range c.listeners {
		l.RowInserted(c)
	}
	return nil
}

func (c *MemoryCursor) Update(column int, value interface{}) error {
	row, err := c.target(column)
	if err != nil {
		return err
	}
	row[column-1] = value
	return nil
}

func (c *MemoryCursor) NotifyCursorMoved() {
	for _, l := range c.listeners {
		l.CursorMoved(c)
	}
}

// Iterate returns an iterator over a snapshot of the committed rows.
func (c *MemoryCursor) Iterate() (RowIterator, error) {
	if c.closed {
		return nil, ErrClosed
	}
	rows := make([]Row, len(c.rows))
	for i, r := range c.rows {
		rows[i] = NewJSONRow(NewOrderedMap(c.columns, r))
	}
	return &sliceIterator{rows: rows, index: -1}, nil
}

// Close drops the rows. Every later call fails with ErrClosed.
func (c *MemoryCursor) Close() error {
	c.closed = true
	c.rows = nil
	c.insertRow = nil
	c.onInsert = false
	c.pos = 0
	return nil
}

func (c *MemoryCursor) valid() bool {
	return c.pos >= 1 && c.pos <= len(c.rows)
}

// move prepares any movement: it fails on a closed cursor and abandons the insert row.
func (c *MemoryCursor) move() error {
	if c.closed {
		return ErrClosed
	}
	c.leaveInsertRow()
	return nil
}

func (c *MemoryCursor) scrollable() error {
	if err := c.move(); err != nil {
		return err
	}
	if c.scroll == ForwardOnly {
		return ErrForwardOnly
	}
	return nil
}

func (c *MemoryCursor) leaveInsertRow() {
	if !c.onInsert {
		return
	}
	c.onInsert = false
	c.insertRow = nil
	c.pos = c.savedPos
}

// target returns the row a column access applies to.
func (c *MemoryCursor) target(column int) ([]interface{}, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if column < 1 || column > len(c.columns) {
		return nil, fmt.Errorf("%w: %d", ErrColumnIndex, column)
	}
	if c.onInsert {
		return c.insertRow, nil
	}
	if !c.valid() {
		return nil, ErrNoCurrentRow
	}
	return c.rows[c.pos-1], nil
}

type sliceIterator struct {
	rows  []Row
	index int
}

func (it *sliceIterator) Next() bool {
	if it.index < len(it.rows) {
		it.index++
	}
	return it.index < len(it.rows)
}

func (it *sliceIterator) Row() Row {
	if it.index >= 0 && it.index < len(it.rows) {
		return it.rows[it.index]
	}
	return nil
}

func (it *sliceIterator) Error() error { return nil }
func (it *sliceIterator) Close() error { return nil }
