package domain

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrNoBuilds          = errors.New("job has no builds")
	ErrChangeSetRevision = errors.New("change set item has no revision")
)

// TransportError means a required document could not be fetched or parsed.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CreationError means the server rejected a create or copy request.
type CreationError struct {
	Name       string
	StatusCode int
	Body       string
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("error creating job %s: status %d: %s", e.Name, e.StatusCode, e.Body)
}

// TimeoutError means a wait was cancelled or ran past its deadline while the
// job was still in State.
type TimeoutError struct {
	Job   string
	State JobState
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("waiting for %s: still %s: %v", e.Job, e.State, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
