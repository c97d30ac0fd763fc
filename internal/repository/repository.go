// filepath: internal/repository/repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"aiopro/internal/config"
	"aiopro/internal/db/migrations"
	"aiopro/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Repository is the sqlite-backed persistence layer.
type Repository struct {
	DB      *sql.DB
	Builder squirrel.StatementBuilderType // SQL Query Builder

	// Read-through cache for full report lookups. Reports are immutable
	// once written, so entries only need invalidation on delete.
	reportCache *cache.Cache
}

// Store defines the persistence operations used by the service layer.
type Store interface {
	Close() error

	// Reports
	CreateReport(report *models.CrawlReport) error
	GetReport(id string) (*models.CrawlReport, error)
	ListReports(filter models.ReportFilter) ([]models.CrawlReport, error)
	DeleteReport(id string) error
	DeleteReportsOlderThan(cutoff time.Time) (int64, error)

	// API Keys
	CreateKey(key *models.APIKey) error
	GetKey(id string) (*models.APIKey, error)
	GetKeys() ([]models.APIKey, error)
	RevokeKey(id string) error
	TouchKey(id string, usedAt time.Time) error
}

var _ Store = (*Repository)(nil)

// NewRepository opens (or creates) the sqlite database file.
func NewRepository(cfg *config.Config) (*Repository, error) {
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", cfg.Database.Path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database at %s: %w", cfg.Database.Path, err)
	}

	// Required for ON DELETE CASCADE on crawl_pages.
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Repository{
		DB:          db,
		Builder:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		reportCache: cache.New(5*time.Minute, 10*time.Minute),
	}, nil
}

// Close closes the underlying database handle.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// EnsureSchemaBootstrapped applies any pending embedded migrations.
func (s *Repository) EnsureSchemaBootstrapped() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	// The migrations directory is embedded, so "." is the FS root.
	if err := goose.Up(s.DB, "."); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// ValidateSchema checks that the tables the application relies on exist.
func (s *Repository) ValidateSchema() error {
	for _, table := range []string{"api_keys", "crawl_reports", "crawl_pages"} {
		var name string
		err := s.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			return fmt.Errorf("required table '%s' is missing, run 'aiopro migrate up': %w", table, err)
		}
	}
	return nil
}

// NewID mints a sortable unique identifier for stored records.
func NewID() string {
	return ulid.Make().String()
}
