package domain

import "context"

// WorkflowNotifier tells listeners that a workflow changed. Delivery is
// best effort: implementations log failures and never return them, so a
// notification can never undo the change it reports.
type WorkflowNotifier interface {
	NotifyWorkflowUpdated(ctx context.Context, event *WorkflowUpdated)
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) NotifyWorkflowUpdated(context.Context, *WorkflowUpdated) {}
