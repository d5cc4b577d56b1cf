package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	notificationsdomain "github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	notificationsports "github.com/Apurer/go-order-service/internal/domains/notifications/ports"
	"github.com/Apurer/go-order-service/internal/domains/orders/ports"
	notificationactivities "github.com/Apurer/go-order-service/internal/platform/temporal/activities/notifications"
	notificationworkflows "github.com/Apurer/go-order-service/internal/platform/temporal/workflows/notifications"
)

var (
	_ ports.Notifier = (*TemporalNotifier)(nil)
	_ ports.Notifier = (*InlineNotifier)(nil)
)

// WorkflowStarter is the slice of client.Client the notifier needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalNotifier hands order notifications to a Temporal workflow and returns once it started.
type TemporalNotifier struct {
	client    WorkflowStarter
	taskQueue string
}

func NewTemporalNotifier(c WorkflowStarter) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: notificationworkflows.OrderEventTaskQueue}
}

func (n *TemporalNotifier) SendOrderConfirmation(ctx context.Context, orderID, userID int64) error {
	return n.start(ctx, notificationsdomain.KindOrderConfirmation, orderID, userID)
}

func (n *TemporalNotifier) SendOrderCancellation(ctx context.Context, orderID, userID int64) error {
	return n.start(ctx, notificationsdomain.KindOrderCancellation, orderID, userID)
}

func (n *TemporalNotifier) start(ctx context.Context, kind notificationsdomain.Kind, orderID, userID int64) error {
	if n == nil || n.client == nil {
		return errors.New("temporal notifier not configured")
	}
	options := client.StartWorkflowOptions{
		// Order ids restart with the in-memory repository, so the id alone may collide
		// with an older execution that is still retrying.
		ID:        fmt.Sprintf("order-event-%s-%d-%s", kind, orderID, uuid.NewString()),
		TaskQueue: n.taskQueue,
	}
	input := notificationactivities.OrderEventInput{Kind: kind, OrderID: orderID, UserID: userID}
	if _, err := n.client.ExecuteWorkflow(ctx, options, notificationworkflows.OrderEventWorkflowName, input); err != nil {
		// A start retried by the client can report its own first attempt.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return err
	}
	return nil
}

// InlineNotifier calls the notification dispatcher synchronously, for tests or dev fallbacks.
type InlineNotifier struct {
	service notificationsports.Service
}

func NewInlineNotifier(service notificationsports.Service) *InlineNotifier {
	return &InlineNotifier{service: service}
}

func (n *InlineNotifier) SendOrderConfirmation(ctx context.Context, orderID, userID int64) error {
	if n == nil || n.service == nil {
		return errors.New("inline notifier not configured")
	}
	return n.service.SendOrderConfirmation(ctx, orderID, userID)
}

func (n *InlineNotifier) SendOrderCancellation(ctx context.Context, orderID, userID int64) error {
	if n == nil || n.service == nil {
		return errors.New("inline notifier not configured")
	}
	return n.service.SendOrderCancellation(ctx, orderID, userID)
}
