package mutate

import "fmt"

// Reason names why a mutation input was rejected.
type Reason string

const (
	ReasonEmptyName      Reason = "empty-name"
	ReasonDuplicateName  Reason = "duplicate-name"
	ReasonEmptyTitle     Reason = "empty-title"
	ReasonInvalidDueDate Reason = "invalid-due-date"
)

// ValidationError is a recoverable input error. Forms show it inline.
type ValidationError struct {
	Reason Reason
	Kind   string
	Value  string
}

func (e ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmptyName:
		return fmt.Sprintf("%s name is required", e.Kind)
	case ReasonDuplicateName:
		return fmt.Sprintf("%s %q already exists", e.Kind, e.Value)
	case ReasonEmptyTitle:
		return "title is required"
	case ReasonInvalidDueDate:
		return fmt.Sprintf("invalid due date %q (expected YYYY-MM-DD)", e.Value)
	default:
		return string(e.Reason)
	}
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
