package domain

// DefaultNotifyTime is assigned to every freshly saved user.
const DefaultNotifyTime = "07:00"

// UserRecord holds per-user settings persisted in the store.
// City and coordinates are nullable: a user may have shared a location
// without a saved city, or the other way around.
type UserRecord struct {
	UserID               int64    `db:"user_id"`
	City                 *string  `db:"city"`
	Latitude             *float64 `db:"latitude"`
	Longitude            *float64 `db:"longitude"`
	NotificationsEnabled bool     `db:"notifications_enabled"`
	NotificationTime     string   `db:"notification_time"`
}

// DueUser is the projection the scheduler works with.
type DueUser struct {
	UserID int64  `db:"user_id"`
	City   string `db:"city"`
}
