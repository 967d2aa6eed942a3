package safeen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTable = errors.New("duplicate table")
	ErrTableNotFound  = errors.New("table not found")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrRowLength      = errors.New("row length mismatch")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrOverflow       = errors.New("overflow")
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrNotArray       = errors.New("column is not an array")
	ErrBlobNotFound   = errors.New("blob not found")
)

// DataError reports malformed or truncated encoded data.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x", e.Msg, e.Off, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x", e.Msg, e.Off, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x...%x", e.Msg, e.Off, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
		}
	}
}

// CellError is a single problem with one row and/or column. Row is -1 when
// the problem is not tied to a stored row (e.g. a rejected insert).
type CellError struct {
	Row    int
	Column string
	Msg    string
	Err    error
}

func cellErrf(row int, column string, err error, format string, args ...any) *CellError {
	return &CellError{row, column, fmt.Sprintf(format, args...), err}
}

func (e *CellError) Unwrap() error {
	return e.Err
}

func (e *CellError) Error() string {
	var buf strings.Builder
	if e.Row >= 0 {
		fmt.Fprintf(&buf, "row %d", e.Row)
	}
	if e.Column != "" {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "column %q", e.Column)
	}
	if buf.Len() > 0 {
		buf.WriteString(": ")
	}
	if e.Msg != "" {
		buf.WriteString(e.Msg)
		if e.Err != nil {
			buf.WriteString(": ")
			buf.WriteString(e.Err.Error())
		}
	} else if e.Err != nil {
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// SchemaError is a batch of independent failures collected by one table
// or database operation. errors.Is matches against every member.
type SchemaError struct {
	Table string
	Op    string
	Errs  []*CellError
}

func (e *SchemaError) Unwrap() []error {
	result := make([]error, len(e.Errs))
	for i, ce := range e.Errs {
		result[i] = ce
	}
	return result
}

// Messages returns one human-readable line per failure.
func (e *SchemaError) Messages() []string {
	result := make([]string, len(e.Errs))
	for i, ce := range e.Errs {
		result[i] = ce.Error()
	}
	return result
}

func (e *SchemaError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Table)
	if e.Op != "" {
		buf.WriteByte('.')
		buf.WriteString(e.Op)
	}
	switch len(e.Errs) {
	case 0:
		buf.WriteString(": schema error")
	case 1:
		buf.WriteString(": ")
		buf.WriteString(e.Errs[0].Error())
	default:
		fmt.Fprintf(&buf, ": %d errors", len(e.Errs))
		for _, ce := range e.Errs {
			buf.WriteString("\n\t")
			buf.WriteString(ce.Error())
		}
	}
	return buf.String()
}

// batch accumulates cell errors for a single operation.
type batch struct {
	table string
	op    string
	errs  []*CellError
}

func (b *batch) add(ce *CellError) {
	b.errs = append(b.errs, ce)
}

func (b *batch) empty() bool {
	return len(b.errs) == 0
}

func (b *batch) err() error {
	if len(b.errs) == 0 {
		return nil
	}
	return &SchemaError{Table: b.table, Op: b.op, Errs: b.errs}
}

// LoadError is returned by every failed load. The whole load is abandoned;
// no partially populated database is returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load database from %s: %v", e.Source, e.Err)
}

// SaveError is returned by every failed save.
type SaveError struct {
	Dest string
	Err  error
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save database to %s: %v", e.Dest, e.Err)
}
