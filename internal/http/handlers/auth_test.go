package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrestlepro/wrestlepro/internal/auth"
	"github.com/wrestlepro/wrestlepro/internal/domain/user"
	"github.com/wrestlepro/wrestlepro/internal/http/handlers"
	"github.com/wrestlepro/wrestlepro/internal/http/middlewares"
	"github.com/wrestlepro/wrestlepro/internal/repo/memory"
	"github.com/wrestlepro/wrestlepro/internal/security"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h...)

	return r
}

func testTokens() *auth.Manager {
	return auth.NewManager("unit-test-secret", time.Hour)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Buffer

	if body != "" {
		rdr = bytes.NewBufferString(body)
	} else {
		rdr = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		IsActive bool   `json:"isActive"`
	} `json:"user"`
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		seed           func(*memory.UsersRepo)
		wantStatusCode int
		wantRole       string
	}{
		{
			name:           "success_default_role",
			body:           `{"email": "dan@example.com", "password": "strong-pass-1", "name": "Dan Gable"}`,
			wantStatusCode: http.StatusCreated,
			wantRole:       "athlete",
		},
		{
			name:           "success_explicit_role",
			body:           `{"email": "org@example.com", "password": "strong-pass-1", "role": "organizer"}`,
			wantStatusCode: http.StatusCreated,
			wantRole:       "organizer",
		},
		{
			name:           "unknown_role",
			body:           `{"email": "x@example.com", "password": "strong-pass-1", "role": "referee"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "short_password",
			body:           `{"email": "x@example.com", "password": "short"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "bad_email",
			body:           `{"email": "not-an-email", "password": "strong-pass-1"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{"email": "dan@example.com", "password": "strong-pass-1"}`,
			seed: func(repo *memory.UsersRepo) {
				repo.Put(user.New("dan@example.com", "$2a$10$fixture", "First Dan", user.RoleAthlete))
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewUsersRepo()

			if tt.seed != nil {
				tt.seed(repo)
			}

			h := handlers.NewAuthHandler(repo, testTokens())
			r := setupRouter(http.MethodPost, "/api/auth/signup", h.SignUp)

			w := doJSON(t, r, http.MethodPost, "/api/auth/signup", tt.body, nil)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusCreated {
				return
			}

			var resp authResponse

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if resp.Token == "" {
				t.Fatalf("expected a token in the signup response")
			}

			if resp.User.Role != tt.wantRole {
				t.Fatalf("got role %q, want %q", resp.User.Role, tt.wantRole)
			}

			if !resp.User.IsActive {
				t.Fatalf("new accounts should start active")
			}

			if strings.Contains(w.Body.String(), "passwordHash") || strings.Contains(w.Body.String(), "$2a$") {
				t.Fatalf("password hash leaked into response: %s", w.Body.String())
			}
		})
	}
}

func TestSignUpHandler_DuplicateLeavesOriginalIntact(t *testing.T) {
	repo := memory.NewUsersRepo()
	h := handlers.NewAuthHandler(repo, testTokens())
	r := setupRouter(http.MethodPost, "/api/auth/signup", h.SignUp)

	first := doJSON(t, r, http.MethodPost, "/api/auth/signup",
		`{"email": "dan@example.com", "password": "original-pass-1", "name": "Dan"}`, nil)

	if first.Code != http.StatusCreated {
		t.Fatalf("first signup got %d, body=%s", first.Code, first.Body.String())
	}

	second := doJSON(t, r, http.MethodPost, "/api/auth/signup",
		`{"email": "dan@example.com", "password": "attacker-pass-1", "name": "Impostor"}`, nil)

	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate signup got %d, want %d", second.Code, http.StatusConflict)
	}

	// the stored record still answers to the original password

	stored, err := repo.GetByEmail(context.Background(), "dan@example.com")

	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}

	if stored.Name != "Dan" {
		t.Fatalf("duplicate signup mutated the record: name=%q", stored.Name)
	}

	if !security.VerifyPassword(stored.PasswordHash, "original-pass-1") {
		t.Fatalf("original password no longer verifies after duplicate attempt")
	}
}

func TestLoginHandler(t *testing.T) {
	seed := func(repo *memory.UsersRepo) user.User {
		hash, err := security.HashPassword("correct-horse-1")

		if err != nil {
			t.Fatalf("HashPassword failed: %v", err)
		}

		u := user.New("coach@example.com", hash, "Coach K", user.RoleCoach)
		repo.Put(u)

		return u
	}

	t.Run("success_token_carries_stored_role", func(t *testing.T) {
		repo := memory.NewUsersRepo()
		seed(repo)

		tokens := testTokens()
		h := handlers.NewAuthHandler(repo, tokens)
		r := setupRouter(http.MethodPost, "/api/auth/login", h.Login)

		w := doJSON(t, r, http.MethodPost, "/api/auth/login",
			`{"email": "coach@example.com", "password": "correct-horse-1"}`, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var resp authResponse

		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		claims, err := tokens.Parse(resp.Token)

		if err != nil {
			t.Fatalf("issued token failed to parse: %v", err)
		}

		if claims.Role != string(user.RoleCoach) {
			t.Fatalf("token role %q, want %q", claims.Role, user.RoleCoach)
		}

		if claims.Subject != "coach@example.com" {
			t.Fatalf("token subject %q, want %q", claims.Subject, "coach@example.com")
		}
	})

	t.Run("wrong_password_and_unknown_email_are_indistinguishable", func(t *testing.T) {
		repo := memory.NewUsersRepo()
		seed(repo)

		h := handlers.NewAuthHandler(repo, testTokens())
		r := setupRouter(http.MethodPost, "/api/auth/login", h.Login)

		wrongPass := doJSON(t, r, http.MethodPost, "/api/auth/login",
			`{"email": "coach@example.com", "password": "wrong-pass-99"}`, nil)
		unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login",
			`{"email": "nobody@example.com", "password": "correct-horse-1"}`, nil)

		if wrongPass.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
			t.Fatalf("got %d and %d, want both %d", wrongPass.Code, unknownEmail.Code, http.StatusUnauthorized)
		}

		// same code, same message; the response must not reveal which half failed

		if wrongPass.Body.String() != unknownEmail.Body.String() {
			t.Fatalf("login failures differ:\n%s\n%s", wrongPass.Body.String(), unknownEmail.Body.String())
		}

		if !strings.Contains(wrongPass.Body.String(), "invalid email or password") {
			t.Fatalf("unexpected failure message: %s", wrongPass.Body.String())
		}
	})

	t.Run("inactive_account", func(t *testing.T) {
		repo := memory.NewUsersRepo()
		u := seed(repo)
		u.IsActive = false
		repo.Put(u)

		h := handlers.NewAuthHandler(repo, testTokens())
		r := setupRouter(http.MethodPost, "/api/auth/login", h.Login)

		w := doJSON(t, r, http.MethodPost, "/api/auth/login",
			`{"email": "coach@example.com", "password": "correct-horse-1"}`, nil)

		if w.Code != http.StatusForbidden {
			t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusForbidden, w.Body.String())
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		repo := memory.NewUsersRepo()

		h := handlers.NewAuthHandler(repo, testTokens())
		r := setupRouter(http.MethodPost, "/api/auth/login", h.Login)

		w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email": "coach@example.com"}`, nil)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// End-to-end over the handler surface: signup, login, authenticated /me,
// then the same route with a tampered token.
func TestAuthFlow_SignupLoginMe(t *testing.T) {
	repo := memory.NewUsersRepo()
	tokens := testTokens()

	authHandler := handlers.NewAuthHandler(repo, tokens)
	authMW := middlewares.NewAuthMiddleware(auth.NewResolver(tokens, repo))

	r := gin.New()
	r.POST("/api/auth/signup", authHandler.SignUp)
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/api/auth/me", authMW.RequireAuth(), authHandler.Me)

	// signup
	w := doJSON(t, r, http.MethodPost, "/api/auth/signup",
		`{"email": "flow@example.com", "password": "flow-pass-123", "name": "Flow", "role": "coach"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("signup got %d, body=%s", w.Code, w.Body.String())
	}

	// login
	w = doJSON(t, r, http.MethodPost, "/api/auth/login",
		`{"email": "flow@example.com", "password": "flow-pass-123"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("login got %d, body=%s", w.Code, w.Body.String())
	}

	var resp authResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal login response: %v", err)
	}

	// authenticated /me
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", map[string]string{
		"Authorization": "Bearer " + resp.Token,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("me got %d, body=%s", w.Code, w.Body.String())
	}

	var me struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("failed to unmarshal me response: %v", err)
	}

	if me.User.Email != "flow@example.com" || me.User.Role != "coach" {
		t.Fatalf("unexpected identity: %+v", me.User)
	}

	// tampered token
	tampered := resp.Token[:len(resp.Token)-2] + "xx"

	if tampered == resp.Token {
		tampered = resp.Token[:len(resp.Token)-2] + "yy"
	}

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", map[string]string{
		"Authorization": "Bearer " + tampered,
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token got %d, want %d", w.Code, http.StatusUnauthorized)
	}

	// no header at all
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header got %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
