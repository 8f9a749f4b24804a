package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/flivergg/Bot-Weather/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sqlx.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertCity saves the city with notification defaults. INSERT OR REPLACE
// rewrites the whole row, so coordinates from earlier location shares are
// dropped; that full-overwrite behavior is the contract.
func (r *SQLiteRepo) UpsertCity(ctx context.Context, userID int64, city string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (user_id, city, notifications_enabled, notification_time)
		VALUES (?, ?, 1, ?)`,
		userID, city, domain.DefaultNotifyTime,
	)
	return err
}

// UpdateLocation stores coordinates, keeping the saved city unless a new
// one is supplied. New rows get notification defaults.
func (r *SQLiteRepo) UpdateLocation(ctx context.Context, userID int64, lat, lon float64, city *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, city, latitude, longitude, notifications_enabled, notification_time)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			latitude  = excluded.latitude,
			longitude = excluded.longitude,
			city      = COALESCE(excluded.city, users.city)`,
		userID, city, lat, lon, domain.DefaultNotifyTime,
	)
	return err
}

// GetCity returns the saved city or "" for unknown users.
func (r *SQLiteRepo) GetCity(ctx context.Context, userID int64) (string, error) {
	var city sql.NullString
	err := r.db.GetContext(ctx, &city, `SELECT city FROM users WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return city.String, nil
}

// NotificationsEnabled defaults to true for unknown users.
func (r *SQLiteRepo) NotificationsEnabled(ctx context.Context, userID int64) (bool, error) {
	var enabled bool
	err := r.db.GetContext(ctx, &enabled,
		`SELECT notifications_enabled FROM users WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return enabled, nil
}

// ToggleNotifications reads the current state and writes the inverse.
// The read and write are two statements; the gap is accepted (a user
// double-firing the toggle races with itself, nothing else).
func (r *SQLiteRepo) ToggleNotifications(ctx context.Context, userID int64) (bool, error) {
	var enabled bool
	err := r.db.GetContext(ctx, &enabled,
		`SELECT notifications_enabled FROM users WHERE user_id = ?`, userID)

	var newState bool
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Unknown user: assumed-true baseline toggles to false.
		newState = false
	case err != nil:
		return false, err
	default:
		newState = !enabled
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET notifications_enabled = ? WHERE user_id = ?`,
		newState, userID); err != nil {
		return false, err
	}
	return newState, nil
}

// SetNotificationTime stores the "HH:MM" slot.
func (r *SQLiteRepo) SetNotificationTime(ctx context.Context, userID int64, hhmm string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET notification_time = ? WHERE user_id = ?`,
		hhmm, userID)
	return err
}

// UsersDueAt returns enabled users whose stored time matches exactly.
func (r *SQLiteRepo) UsersDueAt(ctx context.Context, hhmm string) ([]domain.DueUser, error) {
	var due []domain.DueUser
	err := r.db.SelectContext(ctx, &due, `
		SELECT user_id, COALESCE(city, '') AS city
		FROM users
		WHERE notifications_enabled = 1 AND notification_time = ?
		ORDER BY user_id`,
		hhmm)
	if err != nil {
		return nil, err
	}
	return due, nil
}

// ListAll returns every stored user record.
func (r *SQLiteRepo) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	var users []domain.UserRecord
	err := r.db.SelectContext(ctx, &users, `
		SELECT user_id, city, latitude, longitude, notifications_enabled, notification_time
		FROM users
		ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	return users, nil
}
