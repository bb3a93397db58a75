package azure

import "fmt"

// ErrorKind tags an extraction error. Every kind is retryable or skippable at
// the batch level; none is fatal to a run.
type ErrorKind string

const (
	KindNetworkFailure    ErrorKind = "network_failure"
	KindThrottled         ErrorKind = "throttled"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindServiceError      ErrorKind = "service_error"
)

// Error is an extraction-call failure tagged with its kind.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, defaulting to service_error for errors that
// did not originate in this package.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindServiceError
}

// classifyStatus maps an HTTP status plus service error code to an ErrorKind.
func classifyStatus(status int, code string) ErrorKind {
	switch {
	case status == 429:
		return KindThrottled
	case status == 415:
		return KindUnsupportedFormat
	case status == 400 && (code == "InvalidContent" || code == "UnsupportedMediaType"):
		return KindUnsupportedFormat
	default:
		return KindServiceError
	}
}
