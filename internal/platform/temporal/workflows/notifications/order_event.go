package notifications

import (
	"go.temporal.io/sdk/workflow"

	notificationactivities "github.com/Apurer/go-order-service/internal/platform/temporal/activities/notifications"
	"github.com/Apurer/go-order-service/internal/platform/temporal/sequences"
)

const (
	OrderEventWorkflowName = "notifications.workflows.OrderEvent"
	OrderEventTaskQueue    = "notifications-order-events"
)

// OrderEventWorkflow delivers a post-commit order notification durably.
func OrderEventWorkflow(ctx workflow.Context, input notificationactivities.OrderEventInput) error {
	return sequences.RunOrderEventSequence(ctx, input)
}
