// internal/domain/rotation/daterules.go
package rotation

import "time"

const (
	// scanWindowDays bounds the linear search in NextValidSlotDate.
	scanWindowDays = 400
	// maxRecurrenceSteps bounds the weekly walk in NextRecurrence
	// (60 weeks, roughly the same horizon as scanWindowDays).
	maxRecurrenceSteps = 60
)

// IsValidSlotDate reports whether date can hold a slot of the given type:
// it must not be a holiday and must fall on the type's weekday category.
func IsValidSlotDate(date time.Time, typ ScheduleType, holidays HolidaySet) bool {
	d := Date(date)
	if holidays.Contains(d) {
		return false
	}
	switch typ {
	case TypeSaturdaySolo:
		return d.Weekday() == time.Saturday
	default: // TypeWeekdayPair
		return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
	}
}

// NextValidSlotDate returns the first date >= from that passes
// IsValidSlotDate, scanning one day at a time. Returns
// ErrScanWindowExceeded when the holiday set exhausts the window.
func NextValidSlotDate(from time.Time, typ ScheduleType, holidays HolidaySet) (time.Time, error) {
	d := Date(from)
	for i := 0; i < scanWindowDays; i++ {
		if IsValidSlotDate(d, typ, holidays) {
			return d, nil
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrScanWindowExceeded
}

// NextRecurrence returns the next Saturday-solo occurrence after from:
// seven days later, pushed by further whole weeks while the candidate is a
// holiday. Unlike NextValidSlotDate it never lands on from itself.
func NextRecurrence(from time.Time, holidays HolidaySet) (time.Time, error) {
	d := Date(from)
	for i := 0; i < maxRecurrenceSteps; i++ {
		d = d.AddDate(0, 0, 7)
		if !holidays.Contains(d) {
			return d, nil
		}
	}
	return time.Time{}, ErrScanWindowExceeded
}
