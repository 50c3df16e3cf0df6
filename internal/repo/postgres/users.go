package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/showfinder/internal/domain/user"
	"github.com/geocoder89/showfinder/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usersEmailKey = "users_email_key"

// UsersRepo is the credential store. It only translates to and from rows.
type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, hash, display_name, city_name, lat, long, created_at
			FROM users
			WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.DisplayName,
			&u.CityName,
			&u.Lat,
			&u.Long,
			&u.CreatedAt,
		)
	})

	if err != nil {
		return user.User{}, mapUserErr(err)
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, params user.CreateParams) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (email, hash, display_name, city_name, lat, long)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, email, hash, display_name, city_name, lat, long, created_at`,
			params.Email, params.PasswordHash, params.DisplayName, params.CityName, params.Lat, params.Long,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.DisplayName,
			&u.CityName,
			&u.Lat,
			&u.Long,
			&u.CreatedAt,
		)
	})

	if err != nil {
		return user.User{}, mapUserErr(err)
	}

	return u, nil
}

// mapUserErr translates driver errors into user sentinels. Anything else is
// returned unchanged.
func mapUserErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return user.ErrNotFound
	case IsUniqueViolation(err, usersEmailKey):
		return user.ErrEmailTaken
	default:
		return err
	}
}
