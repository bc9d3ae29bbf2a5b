package store

import (
	"errors"
	"fmt"
)

// ErrNotExist is returned by backends when the key has never been written.
var ErrNotExist = errors.New("key not found")

var ErrDoctorIssuesFound = errors.New("doctor found errors")

// PersistenceError wraps a backend or serialization failure. It is swallowed at the
// persistence boundary (logged by Load and the Autosaver) and only surfaces from Save.
type PersistenceError struct {
	Op      string
	Key     string
	Backend string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
