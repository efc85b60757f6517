package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"booklib/internal/config"
	"booklib/internal/database"
	"booklib/internal/logger"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

var errNameRequired = errors.New("name is required for 'create' command")

type options struct {
	command string
	name    string
	dir     string
}

func main() {
	var opts options
	flag.StringVar(&opts.command, "command", database.MigrateUp, "Migration command: up, down, status, create")
	flag.StringVar(&opts.name, "name", "", "Name for 'create' command")
	flag.StringVar(&opts.dir, "dir", migrationsDir(), "Directory new migrations are created in")
	flag.Parse()

	boot := logger.Bootstrap()
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		boot.Fatal().Err(err).Msg("build logger")
	}

	if err := run(context.Background(), cfg, log, opts); err != nil {
		log.Fatal().Err(err).Str("command", opts.command).Msg("migration failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts options) error {
	if opts.command == "create" {
		if err := create(opts.dir, opts.name); err != nil {
			return err
		}
		log.Info().Str("name", opts.name).Str("dir", opts.dir).Msg("migration created")
		return nil
	}

	db, err := database.New(ctx, cfg.Database, log, cfg.Log.SQL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool, opts.command, log); err != nil {
		return err
	}
	log.Info().Str("command", opts.command).Msg("migration finished")
	return nil
}

// migrationsDir is where new migration files are written, relative to the repo root.
func migrationsDir() string {
	if v := os.Getenv(config.Prefix + "MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}

func create(dir, name string) error {
	if name == "" {
		return errNameRequired
	}
	goose.SetSequential(true)
	return goose.Create(nil, dir, name, "sql")
}
