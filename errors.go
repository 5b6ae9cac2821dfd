package brokertx

import "fmt"

// RowError is a recoverable problem with a single input row. The row is
// skipped, the error is collected, and processing continues.
type RowError struct {
	Row int
	Msg string
}

func (e *RowError) Error() string { return e.Msg }

// Rowf builds a RowError with a formatted message.
func Rowf(row int, format string, args ...any) *RowError {
	return &RowError{Row: row, Msg: fmt.Sprintf(format, args...)}
}

// ErrorList collects row-level errors in encounter order.
type ErrorList struct {
	errs []error
}

// Add appends an error; nil is ignored.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Addf appends a formatted row error.
func (l *ErrorList) Addf(row int, format string, args ...any) {
	l.errs = append(l.errs, Rowf(row, format, args...))
}

// Errors returns the collected errors in encounter order.
func (l *ErrorList) Errors() []error { return l.errs }

// Empty reports whether no errors were collected.
func (l *ErrorList) Empty() bool { return len(l.errs) == 0 }
