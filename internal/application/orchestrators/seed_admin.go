package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
)

// AdminSeeder defines the identity operation needed by SeedAdmin.
type AdminSeeder interface {
	SeedAdmin(ctx context.Context, email, password string) (bool, error)
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	Identity AdminSeeder
	Logger   *slog.Logger
}

// ExecuteSeedAdmin creates the admin account if no admin exists yet. An empty
// password is replaced with a random one that is logged once.
// PRE: Database is initialized
// POST: Exactly one admin exists after a first run
func ExecuteSeedAdmin(ctx context.Context, email, password string, deps SeedAdminDeps) error {
	log := loggerOr(deps.Logger)

	generated := password == ""
	if generated {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = base64.RawURLEncoding.EncodeToString(buf)
	}

	created, err := deps.Identity.SeedAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	if generated {
		log.Warn("auth_event", "event", "admin_seeded", "email", email, "generated_password", password)
		return nil
	}
	log.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
