package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"contacts-admin/internal/models"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		surname VARCHAR(255) NOT NULL,
		tc_number VARCHAR(20) NOT NULL DEFAULT '',
		phone1 VARCHAR(50) NOT NULL DEFAULT '',
		phone2 VARCHAR(50) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		title VARCHAR(255) NOT NULL DEFAULT '',
		neighborhood VARCHAR(255) NOT NULL DEFAULT '',
		district VARCHAR(255) NOT NULL DEFAULT '',
		address TEXT NOT NULL,
		birth_date VARCHAR(32) NOT NULL DEFAULT '',
		gender VARCHAR(10) NOT NULL DEFAULT '',
		notes TEXT NOT NULL,
		category_id INT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_contacts_category (category_id),
		INDEX idx_contacts_name (name, surname)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS import_sessions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_code VARCHAR(64) NOT NULL UNIQUE,
		user_id INT NOT NULL DEFAULT 0,
		filename VARCHAR(255) NOT NULL,
		file_path VARCHAR(512) NOT NULL,
		total_rows INT NOT NULL DEFAULT 0,
		succeeded INT NOT NULL DEFAULT 0,
		failed_rows INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL,
		error_lines TEXT NOT NULL,
		error_message TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_import_sessions_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		tc_number TEXT NOT NULL DEFAULT '',
		phone1 TEXT NOT NULL DEFAULT '',
		phone2 TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		neighborhood TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		category_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_category ON contacts(category_id)`,
	`CREATE TABLE IF NOT EXISTS import_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_code TEXT NOT NULL UNIQUE,
		user_id INTEGER NOT NULL DEFAULT 0,
		filename TEXT NOT NULL,
		file_path TEXT NOT NULL,
		total_rows INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed_rows INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error_lines TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the tables for the connection's driver and seeds the
// default import category.
func Migrate(db *sqlx.DB) error {
	schema := mysqlSchema
	if db.DriverName() == "sqlite" {
		schema = sqliteSchema
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return EnsureCategory(db, models.DefaultImportCategoryID, models.DefaultImportCategoryName)
}

// EnsureCategory inserts the category with the given id unless one exists.
// An existing row keeps its name.
func EnsureCategory(db *sqlx.DB, id int, name string) error {
	query := "INSERT IGNORE INTO categories (id, name, description) VALUES (?, ?, '')"
	if db.DriverName() == "sqlite" {
		query = "INSERT OR IGNORE INTO categories (id, name, description) VALUES (?, ?, '')"
	}
	if _, err := db.Exec(query, id, name); err != nil {
		return fmt.Errorf("failed to seed category %d: %w", id, err)
	}
	return nil
}
