package mcp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var errNotInitialized = errors.New("workflow tools require a database connection")

// projectInput is embedded by every project-scoped tool input.
// Without project_id, tools act on FOKUS_PROJECT_ID.
type projectInput struct {
	ProjectID string `json:"project_id,omitempty"`
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseUUID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// project resolves the project of a tool call, falling back to the
// application default.
func (w workflowTools) project(raw string) (uuid.UUID, error) {
	if raw == "" {
		raw = w.app.DefaultProjectID
	}
	if raw == "" {
		return uuid.Nil, errors.New("project_id is required")
	}
	return parseUUID(raw)
}
