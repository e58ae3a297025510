package database

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"contacts-admin/internal/config"
	"contacts-admin/internal/models"
)

// Open connects to the configured driver and makes sure the schema exists.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err = NewSQLite(cfg.SQLitePath)
	default:
		db, err = NewMySQL(cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	if cfg.ImportDefaultCategoryID > 0 {
		if err := EnsureCategory(db, cfg.ImportDefaultCategoryID, models.DefaultImportCategoryName); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

func NewMySQL(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// NewSQLite opens a SQLite database file, or a private in-memory database
// for ":memory:".
func NewSQLite(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	sqlx.BindDriver("sqlite", sqlx.QUESTION)
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
