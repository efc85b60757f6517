package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booklib/internal/author"
	"booklib/internal/book"
	"booklib/internal/config"
	"booklib/internal/database"
	"booklib/internal/logger"

	"github.com/rs/zerolog"
)

const shutdownTimeout = 15 * time.Second

func main() {
	boot := logger.Bootstrap()

	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		boot.Fatal().Err(err).Msg("build logger")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database, log, cfg.Log.SQL)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, db.Pool, database.MigrateUp, log); err != nil {
			return err
		}
	}

	authorRepository := author.NewPostgresRepo(db.Pool, cfg.Database.QueryTimeout)
	bookRepository := book.NewPostgresRepo(db.Pool, cfg.Database.QueryTimeout)

	authorService := author.NewService(authorRepository)
	bookService := book.NewService(bookRepository, authorRepository, log)

	handler := newRouter(ctx, routerDeps{
		cfg:     cfg.Server,
		log:     log,
		books:   book.NewHTTPHandler(bookService, log),
		authors: author.NewHTTPHandler(authorService, log),
		ping:    db.Pool.Ping,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("env", cfg.Env).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
