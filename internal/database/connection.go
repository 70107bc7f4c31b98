package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// DB is the global database connection
var DB *sqlx.DB

// ErrNotFound is returned when a query matches no record.
var ErrNotFound = errors.New("record not found")

// Connect establishes a connection to the database. The backend is selected
// with DB_TYPE: "sqlite" (default) uses DATABASE_PATH, "postgres" uses
// DATABASE_URL.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		db, err = sqlx.Connect("postgres", os.Getenv("DATABASE_URL"))
		if err != nil {
			return errors.Wrap(err, "failed to connect to postgres")
		}
	default:
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			dbPath = filepath.Join("data", "vocabdiary.db")
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return errors.Wrap(err, "failed to create data directory")
		}
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return errors.Wrap(err, "failed to connect to sqlite")
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return errors.Wrap(err, "failed to enable foreign keys")
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// ConnectForTest opens an in-memory SQLite database with the full schema.
func ConnectForTest() error {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return errors.Wrap(err, "failed to open in-memory sqlite")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// notFound maps driver-level "no rows" onto the package sentinel.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		pk = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS words (
				id %s,
				text_english TEXT NOT NULL UNIQUE,
				text_portuguese TEXT NOT NULL,
				synonyms TEXT,
				complexity INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)
		`, pk),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS training_sets (
				id %s,
				user_id BIGINT NOT NULL,
				creation_date DATE NOT NULL,
				is_mastered BOOLEAN NOT NULL DEFAULT FALSE
			)
		`, pk),
		// At most one open set per user per day.
		`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_training_sets_open
			ON training_sets (user_id, creation_date)
			WHERE NOT is_mastered
		`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS word_statuses (
				id %s,
				user_id BIGINT NOT NULL,
				word_id INTEGER NOT NULL REFERENCES words(id),
				status TEXT NOT NULL,
				consecutive_correct INTEGER NOT NULL DEFAULT 0,
				next_review TIMESTAMP,
				training_set_id BIGINT REFERENCES training_sets(id),
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (user_id, word_id)
			)
		`, pk),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS daily_mastery_logs (
				id %s,
				user_id BIGINT NOT NULL,
				date DATE NOT NULL,
				mastered_words_count INTEGER NOT NULL DEFAULT 0,
				UNIQUE (user_id, date)
			)
		`, pk),
		`
			CREATE TABLE IF NOT EXISTS profiles (
				user_id BIGINT PRIMARY KEY,
				daily_goal INTEGER NOT NULL DEFAULT 10
			)
		`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to initialize schema")
		}
	}
	return nil
}
