package notifications

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	notificationsdomain "github.com/Apurer/go-order-service/internal/domains/notifications/domain"
	notificationsports "github.com/Apurer/go-order-service/internal/domains/notifications/ports"
	usersdomain "github.com/Apurer/go-order-service/internal/domains/users/domain"
	usersports "github.com/Apurer/go-order-service/internal/domains/users/ports"
)

const (
	// SendOrderEventActivityName delivers one order lifecycle notification.
	SendOrderEventActivityName = "notifications.activities.SendOrderEvent"
)

// OrderEventInput identifies the order event to notify about.
type OrderEventInput struct {
	Kind    notificationsdomain.Kind
	OrderID int64
	UserID  int64
}

// Activities groups activities that operate on the notifications bounded context.
type Activities struct {
	service notificationsports.Service
}

func NewActivities(service notificationsports.Service) *Activities {
	return &Activities{service: service}
}

// SendOrderEvent dispatches the confirmation or cancellation notice. Recipients that cannot
// be resolved fail without retry.
func (a *Activities) SendOrderEvent(ctx context.Context, input OrderEventInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order event activity not initialized", "orderId", input.OrderID)
		return errors.New("order event activity not initialized")
	}
	logger.Info("SendOrderEvent activity started", "orderId", input.OrderID, "kind", input.Kind)
	var err error
	switch input.Kind {
	case notificationsdomain.KindOrderConfirmation:
		err = a.service.SendOrderConfirmation(ctx, input.OrderID, input.UserID)
	case notificationsdomain.KindOrderCancellation:
		err = a.service.SendOrderCancellation(ctx, input.OrderID, input.UserID)
	default:
		return temporal.NewNonRetryableApplicationError(fmt.Sprintf("unsupported order event %q", input.Kind), "UnsupportedKind", nil)
	}
	if err != nil {
		logger.Error("SendOrderEvent activity failed", "orderId", input.OrderID, "error", err)
		if errors.Is(err, usersports.ErrNotFound) || errors.Is(err, usersdomain.ErrNoAddress) || errors.Is(err, usersdomain.ErrInvalidEmail) {
			return temporal.NewNonRetryableApplicationError(err.Error(), "UnresolvableRecipient", err)
		}
		return err
	}
	logger.Info("SendOrderEvent activity completed", "orderId", input.OrderID)
	return nil
}
