package search

import "errors"

var (
	ErrIncomplete  = errors.New("search: fill all fields")
	ErrInvalidCode = errors.New("search: origin and destination must be 3 letters")
	ErrSameRoute   = errors.New("search: origin and destination are the same")
)

// ValidationError is a rejected form. Key is the translation key of the
// message shown to the user.
type ValidationError struct {
	Err error
	Key string
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error) *ValidationError {
	key := "fillAll"
	switch {
	case errors.Is(err, ErrInvalidCode):
		key = "iataError"
	case errors.Is(err, ErrSameRoute):
		key = "sameRoute"
	}
	return &ValidationError{Err: err, Key: key}
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
