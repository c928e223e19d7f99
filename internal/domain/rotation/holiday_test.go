package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateHolidayChangesWeekdayRipple(t *testing.T) {
	c := Cycle{ID: 1, Type: TypeWeekdayPair, StartDate: date("2024-01-08"), Events: []Event{
		{ID: 1, CycleID: 1, Date: date("2024-01-08"), StaffIDs: []int64{1, 2}},
		{ID: 2, CycleID: 1, Date: date("2024-01-09"), StaffIDs: []int64{3, 4}},
		{ID: 3, CycleID: 1, Date: date("2024-01-10"), StaffIDs: []int64{5, 6}},
	}}
	c.refreshEndDate()
	cycles := []Cycle{c}
	snapshot := CloneCycles(cycles)

	holidays := NewHolidaySet(date("2024-01-09"))
	changes, err := CalculateHolidayChanges(cycles, date("2024-01-09"), TypeWeekdayPair, holidays)
	require.NoError(t, err)

	// The event before the holiday keeps its date; the hit event and its
	// follower each shift one weekday forward.
	require.Equal(t, []EventDateUpdate{
		{EventID: 2, NewDate: date("2024-01-10")},
		{EventID: 3, NewDate: date("2024-01-11")},
	}, changes.EventsToUpdate)
	require.Empty(t, changes.EventsToCreate)
	require.Empty(t, changes.ParticipantsToDelete)

	require.Equal(t, snapshot, cycles, "input snapshot must not be mutated")

	after := ApplyChangesToCycles(cycles, changes)
	require.NoError(t, ValidateNoDuplicateDates(after))
	require.Equal(t, date("2024-01-11"), after[0].EndDate)
}

func TestCalculateHolidayChangesWeekendHolidayIsNoOp(t *testing.T) {
	c := Cycle{ID: 1, Type: TypeWeekdayPair, StartDate: date("2024-01-12"), Events: []Event{
		{ID: 1, CycleID: 1, Date: date("2024-01-12"), StaffIDs: []int64{1, 2}},
		{ID: 2, CycleID: 1, Date: date("2024-01-15"), StaffIDs: []int64{3, 4}},
	}}
	c.refreshEndDate()

	// A Saturday holiday can never coincide with a weekday-only slot.
	holidays := NewHolidaySet(date("2024-01-13"))
	changes, err := CalculateHolidayChanges([]Cycle{c}, date("2024-01-13"), TypeWeekdayPair, holidays)
	require.NoError(t, err)
	require.True(t, changes.IsEmpty())
}

func TestCalculateHolidayChangesGapDateIsNoOp(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-20"), StaffIDs: []int64{2}},
	)}

	// 01-13 is a Saturday inside the rotation's range but carries no event.
	holidays := NewHolidaySet(date("2024-01-13"))
	changes, err := CalculateHolidayChanges(cycles, date("2024-01-13"), TypeSaturdaySolo, holidays)
	require.NoError(t, err)
	require.True(t, changes.IsEmpty())
}

func TestCalculateHolidayChangesSaturdayRippleWithCascade(t *testing.T) {
	cycle1 := saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
	)
	cycle2 := saturdayCycle(2,
		Event{ID: 3, CycleID: 2, Date: date("2024-01-20"), StaffIDs: []int64{3}},
	)

	holidays := NewHolidaySet(date("2024-01-13"))
	changes, err := CalculateHolidayChanges([]Cycle{cycle1, cycle2}, date("2024-01-13"), TypeSaturdaySolo, holidays)
	require.NoError(t, err)

	// The hit event jumps the holiday week, pushing cycle 1's end onto
	// cycle 2's start; cycle 2 then shifts a recurrence forward.
	require.Equal(t, []EventDateUpdate{
		{EventID: 2, NewDate: date("2024-01-20")},
		{EventID: 3, NewDate: date("2024-01-27")},
	}, changes.EventsToUpdate)

	after := ApplyChangesToCycles([]Cycle{cycle1, cycle2}, changes)
	require.NoError(t, ValidateNoDuplicateDates(after))
	require.Equal(t, date("2024-01-20"), after[0].EndDate)
	require.Equal(t, date("2024-01-27"), after[1].EndDate)
}

func TestCalculateHolidayChangesFirstEventHit(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
	)}

	holidays := NewHolidaySet(date("2024-01-06"))
	changes, err := CalculateHolidayChanges(cycles, date("2024-01-06"), TypeSaturdaySolo, holidays)
	require.NoError(t, err)

	// With no preceding event the hit event anchors on itself: it moves a
	// week out and its follower walks on from there.
	require.Equal(t, []EventDateUpdate{
		{EventID: 1, NewDate: date("2024-01-13")},
		{EventID: 2, NewDate: date("2024-01-20")},
	}, changes.EventsToUpdate)
}
