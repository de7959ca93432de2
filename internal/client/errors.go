package client

import "fmt"

// TransportError means the request never produced an HTTP response
// (connection refused, DNS failure, timeout, cancelled context).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseError means the backend answered, but with a non-2xx status or a body
// that could not be decoded.
type ResponseError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status code %d, body: %s", e.Op, e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
