package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inflation-report/models"
	"inflation-report/utils"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLWriter stores observations in PostgreSQL or SQLite
type SQLWriter struct {
	db     *sql.DB
	driver string
	logger *utils.Logger
}

// NewSQLWriter opens the database for driver ("postgres" or "sqlite3") and pings it
func NewSQLWriter(driver, connStr string, logger *utils.Logger) (*SQLWriter, error) {
	if driver == "sqlite3" && connStr != ":memory:" {
		connStr = sqliteDSN(connStr)
	}
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	if driver == "sqlite3" {
		// one connection keeps ":memory:" databases alive across statements
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Minute * 5)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to %s successfully", driver)
	return &SQLWriter{db: db, driver: driver, logger: logger}, nil
}

// CreateTable creates the cpi_observations table if it doesn't exist
func (w *SQLWriter) CreateTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS cpi_observations (
		country    VARCHAR(3)       NOT NULL,
		year       INTEGER          NOT NULL,
		cpi        DOUBLE PRECISION NOT NULL,
		fetched_at TIMESTAMP        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (country, year)
	);

	CREATE INDEX IF NOT EXISTS idx_cpi_observations_year ON cpi_observations (year);
	`
	if _, err := w.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Info("Table 'cpi_observations' is ready")
	return nil
}

// SaveObservations creates the table and inserts rows
func (w *SQLWriter) SaveObservations(rows []models.Observation) error {
	if err := w.CreateTable(); err != nil {
		return err
	}
	_, err := w.BatchInsert(rows)
	return err
}

// BatchInsert inserts rows in a single transaction, skipping existing
// (country, year) pairs, and returns how many were new
func (w *SQLWriter) BatchInsert(rows []models.Observation) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, w.insertSQL())
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.Country, r.Year, r.CPI)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to insert %s %d: %w", r.Country, r.Year, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Inserted %d/%d observations into %s", inserted, len(rows), w.driver)
	return inserted, nil
}

// Count returns the number of stored observations
func (w *SQLWriter) Count() (int, error) {
	var n int
	err := w.db.QueryRow(`SELECT COUNT(*) FROM cpi_observations`).Scan(&n)
	return n, err
}

// sqliteDSN adds the busy timeout and WAL journal to a file DSN, keeping any
// query parameters the caller already set
func sqliteDSN(connStr string) string {
	sep := "?"
	if strings.Contains(connStr, "?") {
		sep = "&"
	}
	return connStr + sep + "_busy_timeout=5000&_journal_mode=WAL"
}

func (w *SQLWriter) insertSQL() string {
	if w.driver == "postgres" {
		return `INSERT INTO cpi_observations (country, year, cpi) VALUES ($1, $2, $3)
			ON CONFLICT (country, year) DO NOTHING`
	}
	return `INSERT INTO cpi_observations (country, year, cpi) VALUES (?, ?, ?)
		ON CONFLICT (country, year) DO NOTHING`
}

// Close closes the database connection
func (w *SQLWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}
