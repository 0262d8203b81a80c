package database

import "errors"

var (
	ErrNoCurrentRow   = errors.New("cursor is not positioned on a row")
	ErrColumnIndex    = errors.New("column index out of range")
	ErrColumnNotFound = errors.New("column not found")
	ErrNotOnInsertRow = errors.New("cursor is not on the insert row")
	ErrForwardOnly    = errors.New("cursor is forward-only")
	ErrClosed         = errors.New("cursor is closed")
)
