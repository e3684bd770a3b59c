// Package statement defines how bank export files are read row by row and
// turned into transaction drafts. Each supported export lives in a subpackage.
package statement

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/MrJamesThe3rd/scrooge/internal/transaction"
)

var (
	// ErrMalformedRow marks a row whose structure does not fit the format's column map.
	ErrMalformedRow = errors.New("malformed row")
	// ErrUnknownCurrency marks a row whose currency code is not a registered ISO 4217 code.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Record is one raw row of an export file. Line is 1-based.
type Record struct {
	Line   int
	Fields []string
}

// Format is one supported bank export type.
type Format interface {
	Name() string
	Open(r io.Reader) (Source, error)
}

// Source is an opened export file.
type Source interface {
	// Records yields the data rows in file order. It stops after the first error.
	Records() iter.Seq2[Record, error]
	// Parse converts one record without touching storage.
	Parse(rec Record) (transaction.Draft, error)
}

// RowError reports a failure converting a specific row.
type RowError struct {
	Format string
	Line   int
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %v", e.Format, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Malformed builds a RowError wrapping ErrMalformedRow.
func Malformed(format string, line int, msg string, args ...any) error {
	return &RowError{
		Format: format,
		Line:   line,
		Err:    fmt.Errorf("%w: %s", ErrMalformedRow, fmt.Sprintf(msg, args...)),
	}
}
