package client

import (
	"errors"
	"fmt"
)

var (
	ErrRequestFailed   = errors.New("prediction backend request failed")
	ErrTransport       = errors.New("prediction backend unreachable")
	ErrInvalidResponse = errors.New("invalid response from prediction backend")
)

// RequestError is returned when the backend answers with a non-2xx status.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message())
}

// Message is the text shown to the user: the backend's detail when it sent
// one, otherwise "Error <status>".
func (e *RequestError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Error %d", e.StatusCode)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// TransportError wraps a network-level failure.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// UserMessage maps an error returned by the client to the text shown on the
// page.
func UserMessage(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Err.Error()
	}
	return err.Error()
}
