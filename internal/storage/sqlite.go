package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"buyee_bot/internal/model"
	"buyee_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// ErrNotFound is returned when an alert does not exist.
var ErrNotFound = sql.ErrNoRows

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateAlert inserts a new alert and populates its ID and CreatedAt.
func (s *SQLite) CreateAlert(ctx context.Context, alert *model.Alert) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (user_id, chat_id, name, currency, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		alert.UserID, alert.ChatID, alert.Name, alert.Currency, now,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	alert.ID = id
	alert.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// FindAlert returns the alert with the given name owned by the user, or
// ErrNotFound.
func (s *SQLite) FindAlert(ctx context.Context, userID int64, name string) (*model.Alert, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, chat_id, name, currency, created_at
		 FROM alerts WHERE user_id = ? AND name = ?`, userID, name,
	)
	return scanAlert(row)
}

// ListAlerts returns every registered alert.
func (s *SQLite) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, chat_id, name, currency, created_at
		 FROM alerts ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanAlerts(rows)
}

// ListUserAlerts returns the alerts registered by the given user.
func (s *SQLite) ListUserAlerts(ctx context.Context, userID int64) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, chat_id, name, currency, created_at
		 FROM alerts WHERE user_id = ? ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanAlerts(rows)
}

// DeleteAlert removes the user's alert with the given name.
func (s *SQLite) DeleteAlert(ctx context.Context, userID int64, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM alerts WHERE user_id = ? AND name = ?`, userID, name,
	)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAlert(row scannable) (*model.Alert, error) {
	var a model.Alert
	var created sql.NullString
	err := row.Scan(&a.ID, &a.UserID, &a.ChatID, &a.Name, &a.Currency, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	if created.Valid {
		a.CreatedAt, _ = time.Parse(timeLayout, created.String)
	}
	return &a, nil
}

func scanAlerts(rows *sql.Rows) ([]model.Alert, error) {
	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}
