package company

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound is returned when the profile source has no matching entity.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileTransport is returned when the profile source answered with a failure status.
	ErrProfileTransport = errors.New("profile transport error")
	// ErrBackendUnavailable is returned when the completion service did not answer successfully.
	ErrBackendUnavailable = errors.New("completion backend unavailable")
	// ErrMalformedResponse is returned when the completion output contains no JSON object.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// UpstreamError describes a failed call to an external service.
// It unwraps to Kind so callers can use errors.Is with the sentinels above.
type UpstreamError struct {
	Kind       error
	Service    string
	StatusCode int
	Status     string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Service)
	if e.Status != "" {
		msg = fmt.Sprintf("%s: bad status: %s", msg, e.Status)
	} else if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: bad status: %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
