package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/geocoder89/showfinder/internal/config"
	"github.com/geocoder89/showfinder/internal/db"
	"github.com/geocoder89/showfinder/internal/observability"
	"github.com/geocoder89/showfinder/migrations"
	"github.com/jackc/pgx/v5/stdlib"
)

const usage = `usage: migrate [-to N] up|status|down

  up      apply all pending migrations
  status  print applied and pending migrations
  down    roll back the latest migration (or down to -to N)
`

func main() {
	to := flag.Int64("to", 0, "target version for down")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *to); err != nil {
		slog.Error("migrate failed", "cmd", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}

func run(cmd string, to int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBURL, 1)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	switch cmd {
	case "up":
		err = migrations.Up(ctx, sqlDB)
	case "status":
		err = migrations.Status(ctx, sqlDB)
	case "down":
		err = migrations.Down(ctx, sqlDB, to)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		return err
	}

	log.Info("migrate done", "cmd", cmd)
	return nil
}
