package spider

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is matched by every load failure caused by the document itself
var ErrMalformedInput = errors.New("malformed schema document")

// MalformedInputError reports an index that does not resolve within its list
type MalformedInputError struct {
	Database string
	Field    string // document key holding the bad reference
	Index    int
	Len      int
	Reason   string
}

func (e *MalformedInputError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
	}
	return fmt.Sprintf("%s: database %q: %s: %s", ErrMalformedInput, e.Database, e.Field, reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
