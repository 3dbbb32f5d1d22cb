package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wrestlepro/wrestlepro/internal/auth"
	"github.com/wrestlepro/wrestlepro/internal/domain/user"
	"github.com/wrestlepro/wrestlepro/internal/repo/memory"
)

func TestResolver_Resolve(t *testing.T) {
	tokens := auth.NewManager("unit-test-secret", time.Hour)

	users := memory.NewUsersRepo()
	users.Put(user.New("active@example.com", "$2a$10$fixture", "Active User", user.RoleOrganizer))

	inactive := user.New("inactive@example.com", "$2a$10$fixture", "Gone User", user.RoleAthlete)
	inactive.IsActive = false
	users.Put(inactive)

	r := auth.NewResolver(tokens, users)

	issue := func(t *testing.T, email string, role user.Role) string {
		t.Helper()

		tok, err := tokens.Issue(email, role)

		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		return tok
	}

	t.Run("success", func(t *testing.T) {
		u, err := r.Resolve(context.Background(), issue(t, "active@example.com", user.RoleOrganizer))

		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		if u.Email != "active@example.com" {
			t.Fatalf("got email %q, want %q", u.Email, "active@example.com")
		}

		if u.Role != user.RoleOrganizer {
			t.Fatalf("got role %q, want %q", u.Role, user.RoleOrganizer)
		}
	})

	t.Run("unknown_subject", func(t *testing.T) {
		// token is validly signed but the account no longer exists
		_, err := r.Resolve(context.Background(), issue(t, "ghost@example.com", user.RoleAthlete))

		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("inactive_account", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), issue(t, "inactive@example.com", user.RoleAthlete))

		if !errors.Is(err, auth.ErrAccountInactive) {
			t.Fatalf("got %v, want ErrAccountInactive", err)
		}
	})

	t.Run("malformed_token", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), "not-a-jwt")

		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("expired_token", func(t *testing.T) {
		expiredIssuer := auth.NewManager("unit-test-secret", -time.Minute)

		tok, err := expiredIssuer.Issue("active@example.com", user.RoleOrganizer)

		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}

		_, err = r.Resolve(context.Background(), tok)

		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Fatalf("got %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestResolver_StoreFaultIsNotCredentialError(t *testing.T) {
	tokens := auth.NewManager("unit-test-secret", time.Hour)

	storeErr := errors.New("connection refused")
	r := auth.NewResolver(tokens, faultyReader{err: storeErr})

	tok, err := tokens.Issue("active@example.com", user.RoleAthlete)

	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = r.Resolve(context.Background(), tok)

	if !errors.Is(err, storeErr) {
		t.Fatalf("store fault should propagate as-is, got %v", err)
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("store fault must not be reported as a credential problem")
	}
}

type faultyReader struct {
	err error
}

func (f faultyReader) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, f.err
}
