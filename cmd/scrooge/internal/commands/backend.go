package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/MrJamesThe3rd/scrooge/internal/app"
	"github.com/MrJamesThe3rd/scrooge/internal/config"
	"github.com/MrJamesThe3rd/scrooge/internal/database"
	"github.com/MrJamesThe3rd/scrooge/internal/logging"
)

// Backend gives commands access to the database. Connections are opened on first use so
// commands that never touch the database work without one.
type Backend interface {
	Services(ctx context.Context) (*app.Services, error)
	Migrate(ctx context.Context) (int, error)
	Close() error
}

type postgresBackend struct {
	db  *sql.DB
	svc *app.Services
}

func NewPostgresBackend() Backend {
	return &postgresBackend{}
}

func (b *postgresBackend) connect() (*sql.DB, error) {
	if b.db != nil {
		return b.db, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	b.db = db
	b.svc = app.New(db, logger)

	return db, nil
}

func (b *postgresBackend) Services(ctx context.Context) (*app.Services, error) {
	db, err := b.connect()
	if err != nil {
		return nil, err
	}

	// Commands run against an up to date schema.
	if _, err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return b.svc, nil
}

func (b *postgresBackend) Migrate(ctx context.Context) (int, error) {
	db, err := b.connect()
	if err != nil {
		return 0, err
	}

	return database.Migrate(ctx, db)
}

func (b *postgresBackend) Close() error {
	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil

	return err
}
