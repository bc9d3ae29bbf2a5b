package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type saveFailedError struct {
	key     string
	backend string
}

func (e saveFailedError) Error() string {
	return fmt.Sprintf("save failed: key %s on %s backend (see log output)", e.key, e.backend)
}

func errSaveFailed(key, backend string) error {
	return saveFailedError{key: key, backend: backend}
}

type invalidArgError struct {
	name  string
	value string
	want  string
}

func (e invalidArgError) Error() string {
	return fmt.Sprintf("invalid %s %q (expected %s)", e.name, e.value, e.want)
}

func errInvalidArg(name, value, want string) error {
	return invalidArgError{name: name, value: value, want: want}
}
