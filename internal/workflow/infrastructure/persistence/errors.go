package persistence

import (
	"strings"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
)

// mapStatusConflict turns a unique violation on the statuses table into
// the matching domain error. Other errors pass through unchanged.
func mapStatusConflict(err error) error {
	if !database.IsUniqueViolation(err) {
		return err
	}
	constraint := database.ViolatedConstraint(err)
	switch {
	case strings.Contains(constraint, "slug"):
		return domain.ErrSlugTaken
	case strings.Contains(constraint, "name"):
		return domain.ErrDuplicateStatusName
	}
	return err
}
