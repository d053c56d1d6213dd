package bootstrap

import (
	"context"
	"fmt"

	"github.com/kirillkom/document-pipeline/internal/config"
	"github.com/kirillkom/document-pipeline/internal/core/extract"
	"github.com/kirillkom/document-pipeline/internal/core/ports"
	"github.com/kirillkom/document-pipeline/internal/core/usecase"
	"github.com/kirillkom/document-pipeline/internal/infrastructure/recognizer/pdftext"
	"github.com/kirillkom/document-pipeline/internal/infrastructure/recognizer/simulated"
	"github.com/kirillkom/document-pipeline/internal/infrastructure/resilience"
	"github.com/kirillkom/document-pipeline/internal/infrastructure/store/jsonfile"
	"github.com/kirillkom/document-pipeline/internal/infrastructure/store/memory"
	"github.com/kirillkom/document-pipeline/internal/infrastructure/store/postgres"
)

type App struct {
	Config config.Config

	Store    ports.DocumentStore
	Pipeline ports.DocumentPipeline
	Query    *usecase.DocumentQueryUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, closeFn, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	recognizer, err := newRecognizer(cfg)
	if err != nil {
		closeFn()
		return nil, err
	}
	guarded := resilience.WrapRecognizer(recognizer, resilience.DefaultConfig())

	return &App{
		Config:   cfg,
		Store:    store,
		Pipeline: usecase.NewProcessDocumentUseCase(store, guarded, extract.New(), cfg.RecognizeTimeout),
		Query:    usecase.NewDocumentQueryUseCase(store),
		closeFn:  closeFn,
	}, nil
}

func newStore(ctx context.Context, cfg config.Config) (ports.DocumentStore, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return memory.New(), func() {}, nil
	case "file":
		store, err := jsonfile.New(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init file store: %w", err)
		}
		return store, func() {}, nil
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %q", cfg.StoreDriver)
	}
}

func newRecognizer(cfg config.Config) (ports.TextRecognizer, error) {
	switch cfg.Recognizer {
	case "simulated":
		return simulated.New(cfg.RecognizeLatency), nil
	case "pdftext":
		return pdftext.New(), nil
	default:
		return nil, fmt.Errorf("unknown recognizer: %q", cfg.Recognizer)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
