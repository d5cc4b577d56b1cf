package ports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Directory resolves delivery addresses for users.
type Directory interface {
	ResolveAddress(ctx context.Context, userID int64) (string, error)
	// ResolveAddresses returns addresses for the users that exist and have one.
	// Users missing from the result must be resolved individually to learn why.
	ResolveAddresses(ctx context.Context, userIDs []int64) (map[int64]string, error)
}
