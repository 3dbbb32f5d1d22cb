package memory

import (
	"context"
	"sync"

	"github.com/wrestlepro/wrestlepro/internal/domain/user"
)

// UsersRepo is an in-memory credential store keyed by email, mirroring
// the postgres repo's contract. Used as a fake in handler and resolver
// tests.
type UsersRepo struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		users: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Email]; exists {
		return user.User{}, user.ErrEmailTaken
	}

	r.users[u.Email] = u

	return u, nil
}

// Put overwrites a record unconditionally; test helper for setting flags
// like IsActive.
func (r *UsersRepo) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.Email] = u
}
