// internal/domain/rotation/repository.go
package rotation

import (
	"context"
	"time"
)

// Repository defines persistence operations for rotation cycles and their
// events. The core itself never touches storage; the application layer
// reads a snapshot here, runs the pure functions, and hands the resulting
// change-set back to ApplyChanges.
type Repository interface {
	// CreateCycle persists a cycle together with its nested events,
	// filling in the generated ids.
	CreateCycle(ctx context.Context, cycle *Cycle) error
	GetCycleByID(ctx context.Context, id int64) (*Cycle, error)
	// ListCyclesByType returns all cycles of a schedule type with their
	// events ordered by date, cycles ordered by start date.
	ListCyclesByType(ctx context.Context, typ ScheduleType) ([]Cycle, error)
	// FindCycleTypeByEventID resolves which rotation an event belongs to.
	FindCycleTypeByEventID(ctx context.Context, eventID int64) (ScheduleType, error)
	// ApplyChanges applies one computed change-set within a single
	// transaction: creates events with their participant, moves event
	// dates, removes participants (dropping events left empty), and
	// refreshes the end date of every touched cycle.
	ApplyChanges(ctx context.Context, changes ScheduleChanges) error
}

// HolidayRepository defines persistence operations for the holiday set.
type HolidayRepository interface {
	Add(ctx context.Context, date time.Time) error
	ListAll(ctx context.Context) (HolidaySet, error)
}
