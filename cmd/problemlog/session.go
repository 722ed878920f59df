package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/conorfennell/problemlog/internal/app"
	"github.com/conorfennell/problemlog/internal/config"
	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/storage"
	"github.com/conorfennell/problemlog/internal/tracker"
)

// session is everything one command invocation works with.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *storage.DB
	store   *storage.ProblemStore
	tracker *tracker.Tracker
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	return fs
}

// openSession loads config from the parsed flag set, then opens the store.
func openSession(ctx context.Context, fs *pflag.FlagSet) (*session, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(cfg.Log)

	db, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Debug("Database opened", "path", cfg.DB)

	store := storage.NewProblemStore(db, cfg.StorageKey, logger)
	tr, err := tracker.New(ctx, store, tracker.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, err
	}
	tr.OnChange(func(problems []domain.Problem) {
		logger.Debug("Problem list changed", "count", len(problems))
	})

	return &session{cfg: cfg, logger: logger, db: db, store: store, tracker: tr}, nil
}

func (s *session) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
