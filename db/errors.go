package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an entity does not exist or is not
// reachable from the acting user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// IntegrityError means stored references disagree with their parent
// chain. It indicates a bug in a writer, never bad user input, and
// always aborts the enclosing transaction.
type IntegrityError struct {
	Entity string
	ID     uuid.UUID
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation on %s %s: %s", e.Entity, e.ID, e.Detail)
}

func notFound(entity string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}
