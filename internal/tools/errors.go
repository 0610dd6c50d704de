package tools

import "errors"

// Sentinel errors for the failure taxonomy. Expected failures travel as
// Outcome values; these let callers classify them with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrRemoteAPI     = errors.New("remote API error")
	ErrTimeout       = errors.New("timeout")
	ErrUnexpected    = errors.New("unexpected error")
)
