package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrestlepro/wrestlepro/internal/auth"
	"github.com/wrestlepro/wrestlepro/internal/config"
	"github.com/wrestlepro/wrestlepro/internal/domain/user"
	"github.com/wrestlepro/wrestlepro/internal/http/middlewares"
	"github.com/wrestlepro/wrestlepro/internal/security"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

type AuthHandler struct {
	users  UserStore
	tokens *auth.Manager
}

func NewAuthHandler(users UserStore, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"omitempty,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=organizer coach athlete admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// invalid_login deliberately does not say whether the email or the
// password was wrong.
const invalidLoginMessage = "invalid email or password"

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// role defaults to athlete inside the factory when absent

	u, err := h.users.Create(cctx, user.New(req.Email, hash, req.Name, user.Role(req.Role)))

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "email already registered")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.tokens.Issue(u.Email, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for the store lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_login", invalidLoginMessage)
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	if !security.VerifyPassword(foundUser.PasswordHash, req.Password) {
		RespondUnAuthorized(ctx, "invalid_login", invalidLoginMessage)
		return
	}

	if !foundUser.IsActive {
		RespondForbidden(ctx, "Account is inactive")
		return
	}

	// the token carries the stored role, never a client-supplied one
	token, err := h.tokens.Issue(foundUser.Email, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  foundUser,
	})
}

// Me returns the user the auth middleware already resolved.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "invalid_credentials", "Missing identity context")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": u,
	})
}
