package health

import "errors"

var ErrCheckTimeout = errors.New("health: check timeout")

// optionalError marks the failure of a check wrapped by Optional.
type optionalError struct{ err error }

func (e *optionalError) Error() string { return e.err.Error() }
func (e *optionalError) Unwrap() error { return e.err }
