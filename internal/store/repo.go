package store

import (
	"context"

	"github.com/flivergg/Bot-Weather/internal/domain"
)

// Repo defines storage operations for user weather settings.
type Repo interface {
	// UpsertCity saves a user's city and resets notifications to
	// enabled at the default time. The write replaces the whole row:
	// previously stored coordinates are cleared. Destructive by contract.
	UpsertCity(ctx context.Context, userID int64, city string) error

	// UpdateLocation stores coordinates and, only when city is non-nil,
	// overwrites the saved city. Notification settings are untouched for
	// existing rows and defaulted for new ones.
	UpdateLocation(ctx context.Context, userID int64, lat, lon float64, city *string) error

	// GetCity returns the saved city, or "" when the user is unknown or
	// has no city.
	GetCity(ctx context.Context, userID int64) (string, error)

	// NotificationsEnabled reports the toggle state; unknown users
	// default to true.
	NotificationsEnabled(ctx context.Context, userID int64) (bool, error)

	// ToggleNotifications flips the toggle and returns the new state.
	// An unknown user toggles from the assumed-true baseline to false.
	ToggleNotifications(ctx context.Context, userID int64) (bool, error)

	// SetNotificationTime stores an "HH:MM" slot for the user.
	SetNotificationTime(ctx context.Context, userID int64, hhmm string) error

	// UsersDueAt returns enabled users whose stored time equals hhmm
	// exactly (string equality, not a range).
	UsersDueAt(ctx context.Context, hhmm string) ([]domain.DueUser, error)

	// ListAll returns every stored user record.
	ListAll(ctx context.Context) ([]domain.UserRecord, error)

	Close() error
}
