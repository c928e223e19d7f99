// internal/domain/rotation/lifecycle.go
package rotation

import "time"

// CalculateNewStaffChanges plans the Saturday-solo effects of a staff
// member becoming active: one trailing slot is appended per supplied
// cycle, in cycle-start order, and any overlap this pushes into the
// following cycle is cascaded forward before that cycle takes its own
// appended slot. The input snapshot is never mutated.
func CalculateNewStaffChanges(cycles []Cycle, staffID int64, holidays HolidaySet) (ScheduleChanges, error) {
	var changes ScheduleChanges
	work := CloneCycles(cycles)
	sortCyclesByStart(work)
	for i := range work {
		work[i].sortEvents()
	}

	for i := range work {
		cycle := &work[i]

		anchor := cycle.StartDate
		if last := lastEventDate(cycle); !last.IsZero() {
			anchor = last
		}
		date, err := NextRecurrence(anchor, holidays)
		if err != nil {
			return ScheduleChanges{}, err
		}
		changes.EventsToCreate = append(changes.EventsToCreate, EventCreate{
			CycleID: cycle.ID,
			Date:    date,
			StaffID: staffID,
		})
		cycle.Events = append(cycle.Events, Event{CycleID: cycle.ID, Date: date, StaffIDs: []int64{staffID}})
		cycle.EndDate = date

		if err := cascadeOverlap(work, i, TypeSaturdaySolo, holidays, &changes); err != nil {
			return ScheduleChanges{}, err
		}
	}
	return changes, nil
}

// CalculateStaffLeaveChanges plans the Saturday-solo effects of a staff
// member leaving: in each cycle their first slot dated today or later is
// dropped, every later slot in the cycle re-walks forward to close the
// gap, and overlap cascades into the following cycle. Events dated before
// today keep their dates and participants. A staff member with no future
// slots yields zero changes, which is a success, not an error. The input
// snapshot is never mutated.
func CalculateStaffLeaveChanges(cycles []Cycle, staffID int64, today time.Time, holidays HolidaySet) (ScheduleChanges, error) {
	var changes ScheduleChanges
	work := CloneCycles(cycles)
	sortCyclesByStart(work)
	cutoff := Date(today)

	for i := range work {
		cycle := &work[i]
		cycle.sortEvents()

		departIdx := -1
		for ei, e := range cycle.Events {
			if e.Date.Before(cutoff) {
				continue
			}
			if containsID(e.StaffIDs, staffID) {
				departIdx = ei
				break
			}
		}
		if departIdx < 0 {
			continue
		}

		departing := cycle.Events[departIdx]
		changes.ParticipantsToDelete = append(changes.ParticipantsToDelete, ParticipantRemoval{
			EventID: departing.ID,
			StaffID: staffID,
		})

		anchor := cycle.StartDate
		if departIdx > 0 {
			anchor = cycle.Events[departIdx-1].Date
		}
		cycle.Events = append(cycle.Events[:departIdx], cycle.Events[departIdx+1:]...)
		if err := rewalkFrom(cycle, anchor, departIdx, TypeSaturdaySolo, holidays, &changes); err != nil {
			return ScheduleChanges{}, err
		}

		if err := cascadeOverlap(work, i, TypeSaturdaySolo, holidays, &changes); err != nil {
			return ScheduleChanges{}, err
		}
	}
	return changes, nil
}

// rewalkFrom reassigns dates to cycle.Events[startIdx:] by walking forward
// from anchor, recording an update for every event whose date actually
// changes. The walk visits the whole remaining tail even when dates stop
// changing, so a settled schedule is confirmed rather than assumed. The
// cycle's end date is refreshed afterwards; an emptied cycle keeps its
// previous end date.
func rewalkFrom(cycle *Cycle, anchor time.Time, startIdx int, typ ScheduleType, holidays HolidaySet, changes *ScheduleChanges) error {
	cursor := Date(anchor)
	for i := startIdx; i < len(cycle.Events); i++ {
		var next time.Time
		var err error
		if typ == TypeSaturdaySolo {
			next, err = NextRecurrence(cursor, holidays)
		} else {
			next, err = NextValidSlotDate(cursor.AddDate(0, 0, 1), typ, holidays)
		}
		if err != nil {
			return err
		}
		if !cycle.Events[i].Date.Equal(next) {
			changes.EventsToUpdate = append(changes.EventsToUpdate, EventDateUpdate{
				EventID: cycle.Events[i].ID,
				NewDate: next,
			})
			cycle.Events[i].Date = next
		}
		cursor = next
	}
	cycle.refreshEndDate()
	return nil
}

// cascadeOverlap ripples a cycle-boundary push: while a cycle's end date
// sits on or past the following cycle's start date, every event of that
// following cycle re-walks forward from the end date.
func cascadeOverlap(cycles []Cycle, fromIdx int, typ ScheduleType, holidays HolidaySet, changes *ScheduleChanges) error {
	for i := fromIdx; i+1 < len(cycles); i++ {
		current, next := &cycles[i], &cycles[i+1]
		if next.StartDate.After(current.EndDate) {
			break
		}
		next.sortEvents()
		if err := rewalkFrom(next, current.EndDate, 0, typ, holidays, changes); err != nil {
			return err
		}
	}
	return nil
}

// ApplyChangesToCycles projects a change-set onto a deep copy of the
// snapshot, producing the same cycles a storage re-read after persistence
// would yield. Created events appear with a zero id since storage has not
// numbered them yet; events losing their last participant disappear.
func ApplyChangesToCycles(cycles []Cycle, changes ScheduleChanges) []Cycle {
	result := CloneCycles(cycles)

	for _, u := range changes.EventsToUpdate {
		for ci := range result {
			for ei := range result[ci].Events {
				if result[ci].Events[ei].ID == u.EventID {
					result[ci].Events[ei].Date = Date(u.NewDate)
				}
			}
		}
	}

	for _, d := range changes.ParticipantsToDelete {
		for ci := range result {
			kept := result[ci].Events[:0]
			for _, e := range result[ci].Events {
				if e.ID == d.EventID {
					e.StaffIDs = removeID(e.StaffIDs, d.StaffID)
					if len(e.StaffIDs) == 0 {
						continue
					}
				}
				kept = append(kept, e)
			}
			result[ci].Events = kept
		}
	}

	for _, cr := range changes.EventsToCreate {
		for ci := range result {
			if result[ci].ID == cr.CycleID {
				result[ci].Events = append(result[ci].Events, Event{
					CycleID:  cr.CycleID,
					Date:     Date(cr.Date),
					StaffIDs: []int64{cr.StaffID},
				})
			}
		}
	}

	for ci := range result {
		result[ci].sortEvents()
		result[ci].refreshEndDate()
	}
	return result
}
