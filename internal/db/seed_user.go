package db

import (
	"context"
	"errors"

	"github.com/geocoder89/showfinder/internal/auth"
	"github.com/geocoder89/showfinder/internal/config"
)

type Registrar interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (string, error)
}

// EnsureSeedUser creates the configured demo account when both SEED_EMAIL and
// SEED_PASSWORD are set. An existing account is left untouched.
func EnsureSeedUser(ctx context.Context, reg Registrar, cfg config.Config) (bool, error) {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return false, nil
	}

	_, err := reg.SignUp(ctx, auth.SignUpInput{
		Email:       cfg.SeedEmail,
		Password:    cfg.SeedPassword,
		DisplayName: cfg.SeedDisplayName,
	})

	if errors.Is(err, auth.ErrDuplicateUser) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
