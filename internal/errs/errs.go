// Package errs holds the error taxonomy shared by the domain, use cases and adapters.
package errs

import "errors"

var (
	// ErrNotFound indicates an id that does not resolve to an entity.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting user lacks the required role or relationship.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates an exclusivity violation, e.g. a dragon that already has a rider.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState indicates the entity is not in a state that permits the operation.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument indicates malformed, missing or self-referential input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized indicates missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
