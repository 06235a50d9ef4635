package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/keyguard/internal/common"
)

// InMemoryRepository keeps users in a mutex-guarded map. It backs tests and
// the "memory" store driver. The single mutex makes every operation
// linearizable; Clone on both ends keeps callers from mutating stored state.
type InMemoryRepository struct {
	mu   sync.Mutex
	data map[string]*User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]*User)}
}

func (r *InMemoryRepository) Get(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.data[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user.Clone(), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[user.Email]; ok {
		return common.ErrAlreadyExists
	}
	r.data[user.Email] = user.Clone()
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[user.Email]; !ok {
		return common.ErrNotFound
	}
	r.data[user.Email] = user.Clone()
	return nil
}
