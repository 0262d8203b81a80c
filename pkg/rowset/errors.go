package rowset

import "fmt"

// ErrorKind classifies failures raised by the filtered row set itself.
type ErrorKind int

const (
	// InvalidOperation marks a violated precondition: moving a forward-only
	// cursor with Relative/Absolute, Absolute(0), or a staged value the
	// filter rejects.
	InvalidOperation ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidOperation:
		return "invalid operation"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// ErrInvalidOperation matches every InvalidOperation error with errors.Is.
var ErrInvalidOperation = &Error{Kind: InvalidOperation}

// Error is a failure raised by the row set, as opposed to one propagated from
// the cursor or the predicate.
type Error struct {
	Kind ErrorKind
	// Op is the operation that failed, e.g. "Absolute" or "UpdateInt".
	Op string
	// Column is the 1-based column of a rejected value, 0 otherwise.
	Column  int
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Column > 0 {
		msg += fmt.Sprintf(" (column %d)", e.Column)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidOperation(op, message string) *Error {
	return &Error{Kind: InvalidOperation, Op: op, Message: message}
}
