package xlprint

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a configuration whose root is not an object.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrUnsupportedFormat indicates a configuration file that is neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// SheetError is returned when the sink rejects an operation on a sheet.
type SheetError struct {
	Sheet string
	Op    string // "create", "columns", "page", "cell", "merge", "row", "print-area"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %s: %v", e.Sheet, e.Op, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

func sheetError(sheet, op string, err error) error {
	if err == nil {
		return nil
	}
	return &SheetError{Sheet: sheet, Op: op, Err: err}
}
