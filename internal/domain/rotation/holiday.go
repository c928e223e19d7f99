// internal/domain/rotation/holiday.go
package rotation

import "time"

// CalculateHolidayChanges plans the ripple of a newly declared holiday. If
// the date carries an event, that event and everything after it in its
// cycle re-walk forward (anchored at the immediately preceding event), and
// a pushed cycle boundary cascades into following cycles. A holiday on a
// date with no event, or on a weekday the schedule type never uses, yields
// zero changes. The holidays set must already include the new date. The
// input snapshot is never mutated.
func CalculateHolidayChanges(cycles []Cycle, holidayDate time.Time, typ ScheduleType, holidays HolidaySet) (ScheduleChanges, error) {
	var changes ScheduleChanges
	work := CloneCycles(cycles)
	sortCyclesByStart(work)
	target := Date(holidayDate)

	for i := range work {
		cycle := &work[i]
		cycle.sortEvents()

		hitIdx := -1
		for ei, e := range cycle.Events {
			if e.Date.Equal(target) {
				hitIdx = ei
				break
			}
		}
		if hitIdx < 0 {
			continue
		}

		// Without a preceding event the anchor is placed so the walk's
		// first candidate is the hit date itself, which the new holiday
		// then pushes forward.
		var anchor time.Time
		switch {
		case hitIdx > 0:
			anchor = cycle.Events[hitIdx-1].Date
		case typ == TypeSaturdaySolo:
			anchor = target.AddDate(0, 0, -7)
		default:
			anchor = target.AddDate(0, 0, -1)
		}

		if err := rewalkFrom(cycle, anchor, hitIdx, typ, holidays, &changes); err != nil {
			return ScheduleChanges{}, err
		}
		if err := cascadeOverlap(work, i, typ, holidays, &changes); err != nil {
			return ScheduleChanges{}, err
		}
	}
	return changes, nil
}
