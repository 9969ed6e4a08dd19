package gerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedValue    = errors.New("malformed value")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrSnapshotNotLoaded = errors.New("tables snapshot not loaded")
	ErrUnknownSource     = errors.New("unknown table source")
	ErrRateLimited       = errors.New("too many requests")
)

// SchemaError reports required columns absent from a supplied table.
// It is a caller misconfiguration and is never absorbed.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("schema error: table %q is missing", e.Table)
	}
	return fmt.Sprintf("schema error: table %q is missing columns [%s]", e.Table, strings.Join(e.Missing, ", "))
}

// IsSchemaError reports whether err or any error it wraps is a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// MalformedValue wraps ErrMalformedValue with the location of the bad cell.
func MalformedValue(table string, row int, column, value string, cause error) error {
	return fmt.Errorf("%w: table %q row %d column %q value %q: %v", ErrMalformedValue, table, row, column, value, cause)
}
