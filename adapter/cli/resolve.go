package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ParseID parses a UUID argument, naming kind in the error.
func ParseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID %q: %w", kind, raw, err)
	}
	return id, nil
}

// ResolveStatus accepts a status ID, slug or name and returns the status
// of the project it refers to.
func ResolveStatus(ctx context.Context, projectID uuid.UUID, ref string) (queries.StatusDTO, error) {
	if app == nil || app.ListStatusesHandler == nil {
		return queries.StatusDTO{}, fmt.Errorf("application not initialized - database connection required")
	}
	statuses, err := app.ListStatusesHandler.Handle(ctx, queries.ListStatusesQuery{ProjectID: projectID})
	if err != nil {
		return queries.StatusDTO{}, fmt.Errorf("failed to list statuses: %w", err)
	}

	matchers := []func(queries.StatusDTO) bool{
		func(s queries.StatusDTO) bool { return s.ID.String() == strings.ToLower(ref) },
		func(s queries.StatusDTO) bool { return s.Slug == ref },
		func(s queries.StatusDTO) bool { return strings.EqualFold(s.Name, ref) },
		func(s queries.StatusDTO) bool { return s.Slug == domain.Slugify(ref) },
	}
	for _, match := range matchers {
		for _, s := range statuses {
			if match(s) {
				return s, nil
			}
		}
	}
	return queries.StatusDTO{}, fmt.Errorf("%w: %s", domain.ErrStatusNotFound, ref)
}

// StatusNames maps status IDs of a project to display names.
func StatusNames(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]string, error) {
	statuses, err := app.ListStatusesHandler.Handle(ctx, queries.ListStatusesQuery{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	names := make(map[uuid.UUID]string, len(statuses))
	for _, s := range statuses {
		names[s.ID] = s.Name
	}
	return names, nil
}
