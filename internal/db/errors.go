package db

import "fmt"

// Op identifies the store operation that failed.
type Op string

const (
	// OpSearch is a FT.SEARCH call.
	OpSearch Op = "search"
	// OpPing is a connectivity check.
	OpPing Op = "ping"
)

// Error wraps a store failure with the operation that produced it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
