package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	notificationactivities "github.com/Apurer/go-order-service/internal/platform/temporal/activities/notifications"
)

// RunOrderEventSequence delivers an order notification with bounded retries.
func RunOrderEventSequence(ctx workflow.Context, input notificationactivities.OrderEventInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("order event sequence started", "orderId", input.OrderID, "kind", input.Kind)
	sendOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, sendOptions), notificationactivities.SendOrderEventActivityName, input).Get(ctx, nil)
	if err != nil {
		logger.Error("order event sequence failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("order event sequence delivered", "orderId", input.OrderID)
	return nil
}
