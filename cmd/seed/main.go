package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"

	"booklib/internal/author"
	"booklib/internal/book"
	"booklib/internal/config"
	"booklib/internal/database"
	"booklib/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type sampleBook struct {
	title   string
	year    int
	authors []string
}

var sampleAuthors = []string{
	"J. R. R. Tolkien",
	"Terry Pratchett",
	"Neil Gaiman",
	"Ursula K. Le Guin",
	"Isaac Asimov",
	"Arthur C. Clarke",
	"Frank Herbert",
	"Stephen Baxter",
}

var sampleBooks = []sampleBook{
	{"The Hobbit", 1937, []string{"J. R. R. Tolkien"}},
	{"The Lord of the Rings", 1954, []string{"J. R. R. Tolkien"}},
	{"Good Omens", 1990, []string{"Terry Pratchett", "Neil Gaiman"}},
	{"The Long Earth", 2012, []string{"Terry Pratchett", "Stephen Baxter"}},
	{"American Gods", 2001, []string{"Neil Gaiman"}},
	{"A Wizard of Earthsea", 1968, []string{"Ursula K. Le Guin"}},
	{"Foundation", 1951, []string{"Isaac Asimov"}},
	{"The Light of Other Days", 2000, []string{"Arthur C. Clarke", "Stephen Baxter"}},
	{"Dune", 1965, []string{"Frank Herbert"}},
}

var titleWords = []string{"Shadow", "River", "Empire", "Garden", "Machine", "Winter", "Harbor", "Signal", "Crown", "Orbit"}

func main() {
	generated := flag.Int("generated", 0, "Number of random books to add after the sample set")
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

	if err := run(context.Background(), cfg, log, *generated); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, generated int) error {
	db, err := database.New(ctx, cfg.Database, log, cfg.Log.SQL)
	if err != nil {
		return err
	}
	defer db.Close()

	return seed(ctx, db, cfg.Database, log, generated)
}

func seed(ctx context.Context, db *database.Database, cfg config.DatabaseConfig, log zerolog.Logger, generated int) error {
	n, err := db.Pool.CopyFrom(ctx,
		pgx.Identifier{"authors"},
		[]string{"name"},
		pgx.CopyFromSlice(len(sampleAuthors), func(i int) ([]any, error) {
			return []any{sampleAuthors[i]}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy authors: %w", err)
	}
	log.Info().Int64("count", n).Msg("authors inserted")

	authorRepository := author.NewPostgresRepo(db.Pool, cfg.QueryTimeout)
	stored, err := authorRepository.FindAllWithoutBooksByNamePart(ctx, "")
	if err != nil {
		return err
	}
	// The last row per name wins so a repeated seed links the newest authors.
	idByName := lo.SliceToMap(stored, func(a *book.Author) (string, int64) { return a.Name, a.ID })
	ids := lo.Values(idByName)

	service := book.NewService(book.NewPostgresRepo(db.Pool, cfg.QueryTimeout), authorRepository, log)

	for _, s := range sampleBooks {
		authorIDs := lo.Map(s.authors, func(name string, _ int) int64 { return idByName[name] })
		if err := service.Save(ctx, book.NewBook(s.title, s.year, authorIDs...)); err != nil {
			return fmt.Errorf("save %q: %w", s.title, err)
		}
	}

	for i := 0; i < generated; i++ {
		title := fmt.Sprintf("The %s of the %s %d",
			titleWords[rand.Intn(len(titleWords))], titleWords[rand.Intn(len(titleWords))], i+1)
		authorIDs := lo.Samples(ids, 1+rand.Intn(3))
		if err := service.Save(ctx, book.NewBook(title, 1950+rand.Intn(75), authorIDs...)); err != nil {
			return fmt.Errorf("save %q: %w", title, err)
		}
		if (i+1)%1000 == 0 {
			log.Info().Int("done", i+1).Int("total", generated).Msg("generating books")
		}
	}

	log.Info().Int("sample", len(sampleBooks)).Int("generated", generated).Msg("seed complete")
	return nil
}
