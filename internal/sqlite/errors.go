package sqlite

import (
	"fmt"
	"strings"

	"github.com/Transcranial-Solutions/iconpreps/internal/repository"
)

// mapWriteError turns constraint failures into repository sentinels and
// wraps anything else with op.
func mapWriteError(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	case isUniqueViolation(err):
		return repository.ErrConflict
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
