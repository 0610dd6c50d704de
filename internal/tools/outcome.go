package tools

import "fmt"

// FailureKind classifies a failed Outcome.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureValidation
	FailureRemoteAPI
	FailureTimeout
	FailureUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureValidation:
		return "validation"
	case FailureRemoteAPI:
		return "remote_api"
	case FailureTimeout:
		return "timeout"
	case FailureUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Err returns the sentinel error for the kind, or nil for FailureNone.
func (k FailureKind) Err() error {
	switch k {
	case FailureNone:
		return nil
	case FailureValidation:
		return ErrValidation
	case FailureRemoteAPI:
		return ErrRemoteAPI
	case FailureTimeout:
		return ErrTimeout
	default:
		return ErrUnexpected
	}
}

// Outcome is the result of one tool execution: a success carrying the
// remote payload, or a failure carrying a diagnostic error and a message
// meant for the end user. Tools return it instead of an error so that
// timeouts and non-200 responses are ordinary values.
type Outcome struct {
	OK   bool
	Kind FailureKind

	// Message is user-facing text in both variants.
	Message string

	// Success fields. Data is the decoded response body, passed through untouched.
	Query string
	Data  any

	// Failure field: the diagnostic detail.
	Error string
}

// Succeeded builds a successful Outcome.
func Succeeded(message, query string, data any) Outcome {
	return Outcome{OK: true, Message: message, Query: query, Data: data}
}

// Failed builds a failed Outcome of the given kind.
func Failed(kind FailureKind, errText, message string) Outcome {
	if kind == FailureNone {
		kind = FailureUnexpected
	}
	return Outcome{Kind: kind, Error: errText, Message: message}
}

// Err converts a failed Outcome into an error wrapping the kind's sentinel.
// It returns nil for a successful Outcome.
func (o Outcome) Err() error {
	if o.OK {
		return nil
	}
	return fmt.Errorf("%w: %s", o.Kind.Err(), o.Error)
}
