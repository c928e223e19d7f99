// internal/domain/rotation/reflow.go
package rotation

import "sort"

// ShiftSchedule re-packs a schedule after staff removal: the surviving
// staff ids, taken in original chronological-then-slot order, are packed
// into the tightest valid date sequence anchored at the first event's
// date. Survivors are never reordered; only the gaps left by removed staff
// close up, which can shift chunk boundaries (losing one half of a pair
// pulls the next survivor forward into that slot).
func ShiftSchedule(currentEvents []Event, removedStaffIDs []int64, cfg Config) ([]Slot, error) {
	if len(currentEvents) == 0 {
		return []Slot{}, nil
	}

	removed := make(map[int64]struct{}, len(removedStaffIDs))
	for _, id := range removedStaffIDs {
		removed[id] = struct{}{}
	}

	events := append([]Event(nil), currentEvents...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	var survivors []int64
	for _, e := range events {
		for _, id := range e.StaffIDs {
			if _, gone := removed[id]; !gone {
				survivors = append(survivors, id)
			}
		}
	}
	if len(survivors) == 0 {
		return []Slot{}, nil
	}

	return packSlots(survivors, events[0].Date, cfg)
}
