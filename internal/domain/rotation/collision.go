// internal/domain/rotation/collision.go
package rotation

import "time"

// MoveResult carries the pre- and post-change cycle snapshots so callers
// can diff for persistence and show the new schedule without a storage
// round trip.
type MoveResult struct {
	Before []Cycle
	After  []Cycle
}

// DateUpdates diffs the two snapshots into persistence-ready date updates,
// one per event whose date changed.
func (r MoveResult) DateUpdates() []EventDateUpdate {
	prior := make(map[int64]time.Time)
	for _, c := range r.Before {
		for _, e := range c.Events {
			prior[e.ID] = e.Date
		}
	}
	var updates []EventDateUpdate
	for _, c := range r.After {
		for _, e := range c.Events {
			if old, ok := prior[e.ID]; ok && !old.Equal(e.Date) {
				updates = append(updates, EventDateUpdate{EventID: e.ID, NewDate: e.Date})
			}
		}
	}
	return updates
}

// ResolveEventMove honors a manual "move this event to this date" request.
// The target event takes newDate; if another event in the same cycle
// already holds that date it is pushed to the next valid date strictly
// after it, and the push repeats transitively until the chain reaches an
// open date. Only the chain moves: events between the target's old and new
// positions that never collide keep their dates. The input snapshot is
// never mutated.
func ResolveEventMove(cycles []Cycle, eventID int64, newDate time.Time, typ ScheduleType, holidays HolidaySet) (MoveResult, error) {
	before := CloneCycles(cycles)
	after := CloneCycles(cycles)

	cycleIdx, eventIdx := findEvent(after, eventID)
	if cycleIdx < 0 {
		return MoveResult{}, ErrEventNotFound
	}

	cycle := &after[cycleIdx]
	cycle.Events[eventIdx].Date = Date(newDate)

	// Worklist of one: only the most recently moved event can produce the
	// next collision. The chain is bounded by the cycle length; running
	// past it means the snapshot already held duplicate dates.
	movedIdx := eventIdx
	for steps := 0; ; steps++ {
		if steps > len(cycle.Events) {
			return MoveResult{}, ErrDuplicateDate
		}
		collidingIdx := -1
		for i := range cycle.Events {
			if i != movedIdx && cycle.Events[i].Date.Equal(cycle.Events[movedIdx].Date) {
				collidingIdx = i
				break
			}
		}
		if collidingIdx < 0 {
			break
		}
		next, err := NextValidSlotDate(cycle.Events[movedIdx].Date.AddDate(0, 0, 1), typ, holidays)
		if err != nil {
			return MoveResult{}, err
		}
		cycle.Events[collidingIdx].Date = next
		movedIdx = collidingIdx
	}

	cycle.sortEvents()
	cycle.refreshEndDate()
	return MoveResult{Before: before, After: after}, nil
}

func findEvent(cycles []Cycle, eventID int64) (cycleIdx, eventIdx int) {
	for ci := range cycles {
		for ei := range cycles[ci].Events {
			if cycles[ci].Events[ei].ID == eventID {
				return ci, ei
			}
		}
	}
	return -1, -1
}
