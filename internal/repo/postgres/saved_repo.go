package postgres

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/geocoder89/showfinder/internal/domain/saved"
	"github.com/geocoder89/showfinder/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const savedUserTMKey = "saved_user_id_tm_id_key"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var savedColumns = []string{
	"id", "user_id", "name", "images", "genre", "start_date", "tickets_url",
	"city", "state", "price_min", "price_max", "lat", "long", "tm_id", "created_at",
}

type SavedRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSavedRepo(pool *pgxpool.Pool, prom *observability.Prom) *SavedRepo {
	return &SavedRepo{pool: pool, prom: prom}
}

func (r *SavedRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func buildListSaved(userID int64) (string, []interface{}, error) {
	return psql.Select(savedColumns...).
		From("saved").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
}

func buildInsertSaved(c saved.Concert) (string, []interface{}, error) {
	return psql.Insert("saved").
		Columns("user_id", "name", "images", "genre", "start_date", "tickets_url",
			"city", "state", "price_min", "price_max", "lat", "long", "tm_id").
		Values(c.UserID, c.Name, c.Images, c.Genre, c.StartDate, c.TicketsURL,
			c.City, c.State, c.PriceMin, c.PriceMax, c.Lat, c.Long, c.TMID).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
}

func buildDeleteSaved(userID, id int64) (string, []interface{}, error) {
	return psql.Delete("saved").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
}

func joinColumns() string {
	return strings.Join(savedColumns, ", ")
}

func scanSaved(row pgx.Row, c *saved.Concert) error {
	return row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Images,
		&c.Genre,
		&c.StartDate,
		&c.TicketsURL,
		&c.City,
		&c.State,
		&c.PriceMin,
		&c.PriceMax,
		&c.Lat,
		&c.Long,
		&c.TMID,
		&c.CreatedAt,
	)
}

func (r *SavedRepo) ListByUser(ctx context.Context, userID int64) ([]saved.Concert, error) {
	query, args, err := buildListSaved(userID)
	if err != nil {
		return nil, err
	}

	out := make([]saved.Concert, 0)

	err = r.observe("saved.list_by_user", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c saved.Concert
			if err := scanSaved(rows, &c); err != nil {
				return err
			}
			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *SavedRepo) Create(ctx context.Context, req saved.CreateSavedRequest) (saved.Concert, error) {
	query, args, err := buildInsertSaved(saved.NewFromCreateRequest(req))
	if err != nil {
		return saved.Concert{}, err
	}

	var c saved.Concert

	err = r.observe("saved.create", func() error {
		return scanSaved(r.pool.QueryRow(ctx, query, args...), &c)
	})

	if err != nil {
		if IsUniqueViolation(err, savedUserTMKey) {
			return saved.Concert{}, saved.ErrAlreadySaved
		}

		return saved.Concert{}, err
	}

	return c, nil
}

// DeleteForUser removes a row only when it belongs to userID.
func (r *SavedRepo) DeleteForUser(ctx context.Context, userID, id int64) (saved.Concert, error) {
	query, args, err := buildDeleteSaved(userID, id)
	if err != nil {
		return saved.Concert{}, err
	}

	var c saved.Concert

	err = r.observe("saved.delete", func() error {
		return scanSaved(r.pool.QueryRow(ctx, query, args...), &c)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return saved.Concert{}, saved.ErrNotFound
		}

		return saved.Concert{}, err
	}

	return c, nil
}
