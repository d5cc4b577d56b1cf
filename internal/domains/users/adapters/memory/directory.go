package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-order-service/internal/domains/users/domain"
	"github.com/Apurer/go-order-service/internal/domains/users/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory user directory.
type Directory struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

func NewDirectory(users ...domain.User) *Directory {
	d := &Directory{users: make(map[int64]domain.User, len(users))}
	for _, user := range users {
		d.users[user.ID] = user
	}
	return d
}

// Put adds or replaces a user.
func (d *Directory) Put(user domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = user
}

func (d *Directory) ResolveAddress(_ context.Context, userID int64) (string, error) {
	d.mu.RLock()
	user, ok := d.users[userID]
	d.mu.RUnlock()
	if !ok {
		return "", ports.ErrNotFound
	}
	return user.Address()
}

func (d *Directory) ResolveAddresses(_ context.Context, userIDs []int64) (map[int64]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[int64]string, len(userIDs))
	for _, id := range userIDs {
		user, ok := d.users[id]
		if !ok {
			continue
		}
		if addr, err := user.Address(); err == nil {
			out[id] = addr
		}
	}
	return out, nil
}
