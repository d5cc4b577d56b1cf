package domain

import (
	"errors"
	"fmt"
)

// Kind names a notification flow.
type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindOrderCancellation Kind = "order_cancellation"
	KindPasswordReset     Kind = "password_reset"
	KindWelcome           Kind = "welcome"
	KindBulk              Kind = "bulk"
)

var (
	ErrDeliveryFailed     = errors.New("notification delivery failed")
	ErrNotificationFailed = errors.New("notification failed")
	ErrEmptyRecipient     = errors.New("recipient address is required")
)

// Message is one outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// DeliveryError reports a sender rejecting a message.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s to %q: %v", ErrDeliveryFailed, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() []error { return []error{ErrDeliveryFailed, e.Err} }

// NotificationError normalizes failures of the user-addressed flows.
// The underlying cause stays reachable through errors.Is and errors.As.
type NotificationError struct {
	Kind   Kind
	UserID int64
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification for user %d failed: %v", e.Kind, e.UserID, e.Err)
}

func (e *NotificationError) Unwrap() []error { return []error{ErrNotificationFailed, e.Err} }

// BulkFailure records one recipient a bulk send could not reach.
type BulkFailure struct {
	UserID int64
	Err    error
}

// BulkResult aggregates per-recipient outcomes of a bulk send.
type BulkResult struct {
	Successful int
	Failed     int
	Failures   []BulkFailure
}
