package mcp

import (
	"context"

	"github.com/felixgeelhaar/fokus/pkg/observability"
	"github.com/felixgeelhaar/mcp-go"
)

func registerCoreTools(srv *mcp.Server, w workflowTools) error {
	srv.Tool("cli.health").
		Description("Check the health of the workflow backend").
		Handler(w.health)
	return nil
}

func (w workflowTools) health(ctx context.Context, _ struct{}) (*observability.HealthReport, error) {
	if w.app.Health == nil {
		return &observability.HealthReport{Status: observability.HealthStatusHealthy}, nil
	}
	report := w.app.Health.Check(ctx)
	return &report, nil
}
