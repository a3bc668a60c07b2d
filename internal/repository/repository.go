package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-service/internal/config"
	"github.com/Dan9191/credit-service/internal/models"
)

// Errors exported by the repository package
var (
	ErrRepository = errors.New("repository error")
	ErrNotFound   = fmt.Errorf("%w: credit information not found", ErrRepository)
	ErrNameExists = fmt.Errorf("%w: company name already exists", ErrRepository)
	ErrIDExists   = fmt.Errorf("%w: id already exists", ErrRepository)
)

// CreditStore is the persistence contract for credit records
type CreditStore interface {
	List(ctx context.Context) ([]models.CreditRecord, error)
	Get(ctx context.Context, key models.Key) (*models.CreditRecord, error)
	Create(ctx context.Context, rec *models.CreditRecord) error
	Update(ctx context.Context, key models.Key, patch models.CreditPatch) (*models.CreditRecord, error)
	Delete(ctx context.Context, key models.Key) (*models.CreditRecord, error)
	Count(ctx context.Context) (int64, error)
	Optimize(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Repository provides database operations
type Repository struct {
	db      *sql.DB
	dialect *dialect
}

var _ CreditStore = (*Repository)(nil)

// NewRepository initializes a new repository for the given driver
func NewRepository(db *sql.DB, driver string) (*Repository, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, dialect: d}, nil
}

// Connect opens the database pool and pings it until it answers or
// cfg.DBConnectTimeout elapses.
func Connect(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*sql.DB, error) {
	d, err := dialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driverName, d.dsn(cfg.DBConn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = cfg.DBConnectTimeout
	ping := func() error {
		return db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait).Warn("database ping failed")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("database connected")
	return db, nil
}

// OpenSQLite connects to a sqlite file and prepares the schema
func OpenSQLite(ctx context.Context, path string, log *logrus.Logger) (*Repository, error) {
	cfg := &config.Config{
		DBDriver:         config.DriverSQLite,
		DBConn:           filepath.Clean(path),
		DBConnectTimeout: time.Second,
	}
	db, err := Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	repo, err := NewRepository(db, cfg.DBDriver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// EnsureSchema creates the credit table and its name index when absent
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Ping checks the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the connection pool
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// withSession runs fn inside a transaction. The transaction is committed when
// fn succeeds and rolled back on every other exit path.
func (r *Repository) withSession(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}
