package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrestlepro/wrestlepro/internal/config"
	"github.com/wrestlepro/wrestlepro/internal/domain/user"
	"github.com/wrestlepro/wrestlepro/internal/security"
)

// EnsureAdminUser creates the bootstrap admin account when configured.
// With no ADMIN_EMAIL/ADMIN_PASSWORD this is a no-op.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u := user.New(cfg.AdminEmail, hash, cfg.AdminName, user.RoleAdmin)

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.IsActive, u.CreatedAt, u.UpdatedAt,
	)

	return err
}
