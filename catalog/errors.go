package catalog

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an id or slug matches no record.
var ErrNotFound = errors.New("record not found")

// ValidationError lists every required field missing from a create
// request, so the admin console can show all problems in one round
// trip instead of one per submit.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
