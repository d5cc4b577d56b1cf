package ports

import "context"

// Notifier dispatches best-effort order notifications after a state change committed.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, orderID, userID int64) error
	SendOrderCancellation(ctx context.Context, orderID, userID int64) error
}

// NoopNotifier discards every notification.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) SendOrderConfirmation(context.Context, int64, int64) error { return nil }
func (noopNotifier) SendOrderCancellation(context.Context, int64, int64) error { return nil }
