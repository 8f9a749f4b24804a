package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// NotifySlots is the fixed menu of notification times offered to users.
// A stored notification_time is always one of these (or DefaultNotifyTime).
var NotifySlots = []string{"06:00", "07:00", "08:00", "09:00", "12:00", "18:00", "21:00"}

// IsNotifySlot reports whether s exactly matches one of the offered slots.
func IsNotifySlot(s string) bool {
	for _, slot := range NotifySlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ParseHHMM validates a "HH:MM" string and returns minutes since midnight.
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, errors.New("expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, errors.New("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.New("invalid minute")
	}
	return h*60 + m, nil
}

// MinuteLabel formats t as the "HH:MM" label the scheduler matches
// against stored notification times.
func MinuteLabel(t time.Time) string {
	return t.Format("15:04")
}
