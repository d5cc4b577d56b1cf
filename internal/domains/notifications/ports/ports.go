package ports

import (
	"context"

	"github.com/Apurer/go-order-service/internal/domains/notifications/domain"
)

// Sender delivers a rendered message over some channel.
type Sender interface {
	Send(ctx context.Context, msg domain.Message) error
}

// Directory resolves a user's delivery address.
type Directory interface {
	ResolveAddress(ctx context.Context, userID int64) (string, error)
}

// BatchDirectory is implemented by directories that can resolve many users in one lookup.
type BatchDirectory interface {
	Directory
	ResolveAddresses(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

// Service exposes notification use cases.
type Service interface {
	SendNotification(ctx context.Context, recipient, subject, body string) error
	SendOrderConfirmation(ctx context.Context, orderID, userID int64) error
	SendOrderCancellation(ctx context.Context, orderID, userID int64) error
	SendPasswordReset(ctx context.Context, address, token string) error
	SendWelcomeEmail(ctx context.Context, userID int64)
	SendBulkNotifications(ctx context.Context, userIDs []int64, subject, body string) domain.BulkResult
}
