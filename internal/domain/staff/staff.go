package staff

import (
	"time"
)

// Staff is one member of the duty rotation pool. The rotation core only
// ever reads the id; the rest belongs to the bot surface.
type Staff struct {
	ID          int64
	TelegramID  int64
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
