package mcp

import (
	"errors"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	tools := workflowTools{app: deps.App}
	if err := registerCoreTools(srv, tools); err != nil {
		return err
	}
	if err := registerStatusTools(srv, tools); err != nil {
		return err
	}
	if err := registerTransitionTools(srv, tools); err != nil {
		return err
	}
	if err := registerTaskTools(srv, tools); err != nil {
		return err
	}
	return registerWorkflowTools(srv, tools)
}

// workflowTools implements the tool handlers on top of the CLI app.
type workflowTools struct {
	app *cli.App
}
