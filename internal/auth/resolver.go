package auth

import (
	"context"
	"errors"

	"github.com/wrestlepro/wrestlepro/internal/domain/user"
)

var (
	// ErrInvalidCredentials covers bad signatures, expired or malformed
	// tokens, and unknown subjects. Callers cannot tell which check
	// failed, which is the point.
	ErrInvalidCredentials = errors.New("invalid or expired credentials")

	// ErrAccountInactive is the only failure a caller may distinguish:
	// the token was fine but the account has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Resolver turns a bearer token into a live user record. Every call hits
// the store, so role changes and deactivation take effect on the next
// request rather than at token expiry.
type Resolver struct {
	tokens *Manager
	users  UserReader
}

func NewResolver(tokens *Manager, users UserReader) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

func (r *Resolver) Resolve(ctx context.Context, tokenStr string) (user.User, error) {
	claims, err := r.tokens.Parse(tokenStr)

	if err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := r.users.GetByEmail(ctx, claims.Subject)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}

		// store fault, not a credential problem
		return user.User{}, err
	}

	if !u.IsActive {
		return user.User{}, ErrAccountInactive
	}

	return u, nil
}
