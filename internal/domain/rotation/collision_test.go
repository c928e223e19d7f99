package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func saturdayCycle(id int64, events ...Event) Cycle {
	c := Cycle{ID: id, Type: TypeSaturdaySolo, StartDate: events[0].Date, Events: events}
	c.refreshEndDate()
	return c
}

func eventDateByID(cycles []Cycle, eventID int64) string {
	ci, ei := findEvent(cycles, eventID)
	if ci < 0 {
		return ""
	}
	return FormatDate(cycles[ci].Events[ei].Date)
}

func TestResolveEventMoveIntoGap(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-20"), StaffIDs: []int64{2}},
	)}

	res, err := ResolveEventMove(cycles, 1, date("2024-01-13"), TypeSaturdaySolo, NewHolidaySet())
	require.NoError(t, err)

	require.Equal(t, "2024-01-13", eventDateByID(res.After, 1))
	require.Equal(t, "2024-01-20", eventDateByID(res.After, 2), "uninvolved event must not move")
	require.Len(t, res.DateUpdates(), 1)
	require.NoError(t, ValidateNoDuplicateDates(res.After))
}

func TestResolveEventMoveChainReaction(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
		Event{ID: 3, CycleID: 1, Date: date("2024-01-20"), StaffIDs: []int64{3}},
	)}

	res, err := ResolveEventMove(cycles, 1, date("2024-01-13"), TypeSaturdaySolo, NewHolidaySet())
	require.NoError(t, err)

	require.Equal(t, "2024-01-13", eventDateByID(res.After, 1))
	require.Equal(t, "2024-01-20", eventDateByID(res.After, 2))
	require.Equal(t, "2024-01-27", eventDateByID(res.After, 3))
	require.Len(t, res.DateUpdates(), 3)
	require.NoError(t, ValidateNoDuplicateDates(res.After))
}

func TestResolveEventMoveEarlierPushesOccupantForward(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
	)}

	// Moving the later event onto the earlier slot swaps them: the
	// previous occupant is pushed forward, never backward.
	res, err := ResolveEventMove(cycles, 2, date("2024-01-06"), TypeSaturdaySolo, NewHolidaySet())
	require.NoError(t, err)

	require.Equal(t, "2024-01-06", eventDateByID(res.After, 2))
	require.Equal(t, "2024-01-13", eventDateByID(res.After, 1))
	require.NoError(t, ValidateNoDuplicateDates(res.After))
}

func TestResolveEventMoveWeekdaySkipsWeekendAndHolidays(t *testing.T) {
	c := Cycle{ID: 1, Type: TypeWeekdayPair, StartDate: date("2024-01-11"), Events: []Event{
		{ID: 1, CycleID: 1, Date: date("2024-01-11"), StaffIDs: []int64{1, 2}},
		{ID: 2, CycleID: 1, Date: date("2024-01-12"), StaffIDs: []int64{3, 4}},
	}}
	c.refreshEndDate()
	holidays := NewHolidaySet(date("2024-01-15"))

	res, err := ResolveEventMove([]Cycle{c}, 1, date("2024-01-12"), TypeWeekdayPair, holidays)
	require.NoError(t, err)

	require.Equal(t, "2024-01-12", eventDateByID(res.After, 1))
	// The pushed event skips the weekend and the Monday holiday.
	require.Equal(t, "2024-01-16", eventDateByID(res.After, 2))
}

func TestResolveEventMoveUnknownEvent(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
	)}
	_, err := ResolveEventMove(cycles, 99, date("2024-01-13"), TypeSaturdaySolo, NewHolidaySet())
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestResolveEventMoveDoesNotMutateInput(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
	)}
	snapshot := CloneCycles(cycles)

	res, err := ResolveEventMove(cycles, 1, date("2024-01-13"), TypeSaturdaySolo, NewHolidaySet())
	require.NoError(t, err)
	require.Equal(t, snapshot, cycles)
	require.Equal(t, snapshot, res.Before)
}
