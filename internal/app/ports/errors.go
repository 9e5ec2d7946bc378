package ports

import (
	"fmt"

	"dragonden/internal/errs"
)

var (
	ErrNotFound = errs.ErrNotFound

	// ErrVersionConflict reports a lost optimistic-concurrency race on SaveWithVersion/Delete.
	ErrVersionConflict = fmt.Errorf("version %w", errs.ErrConflict)

	// ErrDuplicate reports a unique key collision, e.g. a taken username.
	ErrDuplicate = fmt.Errorf("duplicate %w", errs.ErrConflict)
)
