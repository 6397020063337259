package listing

import (
	"errors"
	"fmt"
)

// ErrNoListing is returned when a page has no heading row to anchor the listing.
var ErrNoListing = errors.New("listing heading not found")

// StructuralError reports page markup that does not follow the expected layout.
// Row is zero for page-level failures.
type StructuralError struct {
	Row    int
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	msg := e.Reason
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return e.Err }

// RowError reports a release row missing a required element.
type RowError struct {
	Row     int
	Missing string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: missing %s", e.Row, e.Missing)
}
