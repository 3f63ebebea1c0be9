// ABOUTME: Typed errors for store open and transaction failures
// ABOUTME: Both wrap the underlying driver error and keep its numeric result code

package store

import (
	"errors"
	"fmt"
)

// OpenError reports that the store could not be opened, created or migrated.
type OpenError struct {
	Path string
	Code int // driver result code, 0 if unknown
	Err  error
}

func (e *OpenError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("opening store %q (code %d): %v", e.Path, e.Code, e.Err)
	}
	return fmt.Sprintf("opening store %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// TransactionError reports that a transaction aborted or failed to commit.
type TransactionError struct {
	Collection Collection
	Mode       Mode
	Code       int // driver result code, 0 if unknown
	Err        error
}

func (e *TransactionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s transaction on %s (code %d): %v", e.Mode, e.Collection, e.Code, e.Err)
	}
	return fmt.Sprintf("%s transaction on %s: %v", e.Mode, e.Collection, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// errorCode extracts the driver result code from err, if any.
func errorCode(err error) int {
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return 0
}

func newOpenError(path string, err error) *OpenError {
	return &OpenError{Path: path, Code: errorCode(err), Err: err}
}
