package api

import (
	"errors"
	"fmt"
	"net/http"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/templates"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func badRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "bad_request", Message: message}
}

// toAPIError maps domain errors onto HTTP statuses.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, domain.ErrStatusNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, templates.ErrTemplateNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrDuplicateStatusName),
		errors.Is(err, domain.ErrStatusInUse),
		errors.Is(err, domain.ErrWorkflowNotEmpty),
		errors.Is(err, sharedDomain.ErrConcurrentModification):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrSelfLoop),
		errors.Is(err, domain.ErrEmptyStatusName),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, domain.ErrInvalidProject),
		errors.Is(err, domain.ErrInvalidBlueprint):
		status, code = http.StatusUnprocessableEntity, "unprocessable"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return &APIError{Status: status, Code: code, Message: message}
}

// parseUUIDParam reads a UUID path parameter.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + name)
	}
	return id, nil
}

// parseUUIDQuery reads an optional UUID query parameter.
func parseUUIDQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &id, nil
}
