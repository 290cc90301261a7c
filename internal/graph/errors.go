package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrPersonNotFound is returned when an operation references an unknown person
	ErrPersonNotFound = errors.New("person not found")
	// ErrNotConnected is returned when two persons share no path
	ErrNotConnected = errors.New("persons not connected")
	// ErrSelfLoop is returned when a relationship links a person to itself
	ErrSelfLoop = errors.New("relationship links a person to itself")
	// ErrInvalidRelation is returned for an unknown relationship type
	ErrInvalidRelation = errors.New("invalid relationship type")
	// ErrInvalidConfidence is returned for a confidence outside [0,1]
	ErrInvalidConfidence = errors.New("confidence outside [0,1]")
)

// PersonError carries the offending person id
type PersonError struct {
	ID  string
	Err error
}

func (e *PersonError) Error() string {
	return fmt.Sprintf("person %q: %v", e.ID, e.Err)
}

func (e *PersonError) Unwrap() error {
	return e.Err
}

// EdgeError carries the offending edge endpoints
type EdgeError struct {
	From string
	To   string
	Err  error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("relationship %q -> %q: %v", e.From, e.To, e.Err)
}

func (e *EdgeError) Unwrap() error {
	return e.Err
}
