package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohits-web03/accountabilabuddy/internal/config"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store executes the typed data-access operations over a gorm connection.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ConnectDatabase opens postgres when DB_URL is set and otherwise falls back
// to a local SQLite file, then runs migrations.
func ConnectDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DB_URL != "" {
		dialector = postgres.Open(cfg.DB_URL)
	} else {
		slog.Warn("DB_URL not set, falling back to local SQLite file", "path", cfg.SQLitePath)
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}
	slog.Info("Successfully connected to database", "engine", db.Dialector.Name())
	return db, nil
}

// Open connects with driver error translation enabled and migrates the schema.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Todo{},
		&models.Friend{},
	)
	if err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

// SQLiteDSN builds a go-sqlite3 DSN with foreign keys enforced on every connection.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// DatabaseVersion reports the engine name and its server version.
func (s *Store) DatabaseVersion(ctx context.Context) (engine, version string, err error) {
	engine = s.db.Dialector.Name()
	query := "SELECT version()"
	if engine == "sqlite" {
		query = "SELECT sqlite_version()"
	}
	if err := s.db.WithContext(ctx).Raw(query).Row().Scan(&version); err != nil {
		return engine, "", fmt.Errorf("failed to read database version: %w", err)
	}
	return engine, version, nil
}
