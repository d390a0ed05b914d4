// Package apierr defines the error classes a call against the scan service can end in.
// Every class is fatal for a scanctl run; none of them are retried.
package apierr

import (
	"fmt"
	"strconv"
)

// TransportCode is the code reported for calls that never produced a response.
const TransportCode = 999

// TransportError is returned when the HTTP exchange itself could not be completed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure (%d): %v", e.Op, TransportCode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when the service breaks its contract, e.g. by replying with something
// other than JSON or by reporting a job status scanctl does not know about.
type ProtocolError struct {
	Op     string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol violation: %s", e.Op, e.Reason)
}

// ApplicationError is a well-formed reply that carries a non-success code.
type ApplicationError struct {
	Code    int
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return "application error " + strconv.Itoa(e.Code)
	}
	return fmt.Sprintf("application error %d: %s", e.Code, e.Message)
}
