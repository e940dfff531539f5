package service

import (
	"errors"
	"fmt"
)

var (
	// ErrCravingRequired is returned when a suggestion is requested without a craving
	ErrCravingRequired = errors.New("craving is required")
	// ErrRecipeRequired is returned when a detail is requested without a named recipe
	ErrRecipeRequired = errors.New("recipe is required")
	// ErrCompletionFailed wraps every failure of the outbound completion call
	ErrCompletionFailed = errors.New("completion request failed")
	// ErrMalformedResponse is matched by every *MalformedResponseError
	ErrMalformedResponse = errors.New("malformed AI response")
)

// MalformedResponseError reports completion text that could not be turned
// into the expected recipe shape. Raw always holds the untouched model output.
type MalformedResponseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedResponse, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedResponse, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMalformedResponse) match regardless of the cause
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func malformed(raw, reason string, err error) *MalformedResponseError {
	return &MalformedResponseError{Reason: reason, Raw: raw, Err: err}
}
