package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateNewStaffChangesSingleCycle(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2026-02-01"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2026-02-08"), StaffIDs: []int64{2}},
		Event{ID: 3, CycleID: 1, Date: date("2026-02-15"), StaffIDs: []int64{3}},
	)}
	snapshot := CloneCycles(cycles)

	changes, err := CalculateNewStaffChanges(cycles, 42, NewHolidaySet())
	require.NoError(t, err)

	require.Len(t, changes.EventsToCreate, 1)
	require.Empty(t, changes.EventsToUpdate)
	require.Empty(t, changes.ParticipantsToDelete)
	require.Equal(t, EventCreate{CycleID: 1, Date: date("2026-02-22"), StaffID: 42}, changes.EventsToCreate[0])

	require.Equal(t, snapshot, cycles, "input snapshot must not be mutated")

	after := ApplyChangesToCycles(cycles, changes)
	require.Equal(t, date("2026-02-22"), after[0].EndDate)
	require.Len(t, after[0].Events, 4)
	require.NoError(t, ValidateNoDuplicateDates(after))
}

func TestCalculateNewStaffChangesCascadesIntoNextCycle(t *testing.T) {
	cycle1 := saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2026-02-08"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2026-02-15"), StaffIDs: []int64{2}},
	)
	cycle2 := saturdayCycle(2,
		Event{ID: 3, CycleID: 2, Date: date("2026-02-22"), StaffIDs: []int64{3}},
		Event{ID: 4, CycleID: 2, Date: date("2026-03-01"), StaffIDs: []int64{4}},
	)

	changes, err := CalculateNewStaffChanges([]Cycle{cycle1, cycle2}, 42, NewHolidaySet())
	require.NoError(t, err)

	// Cycle 1 takes its trailing slot on 02-22, which lands on cycle 2's
	// start, so every cycle 2 event shifts one recurrence forward before
	// cycle 2 takes its own trailing slot.
	require.Len(t, changes.EventsToCreate, 2)
	require.Equal(t, EventCreate{CycleID: 1, Date: date("2026-02-22"), StaffID: 42}, changes.EventsToCreate[0])
	require.Equal(t, EventCreate{CycleID: 2, Date: date("2026-03-15"), StaffID: 42}, changes.EventsToCreate[1])

	require.Equal(t, []EventDateUpdate{
		{EventID: 3, NewDate: date("2026-03-01")},
		{EventID: 4, NewDate: date("2026-03-08")},
	}, changes.EventsToUpdate)

	after := ApplyChangesToCycles([]Cycle{cycle1, cycle2}, changes)
	require.NoError(t, ValidateNoDuplicateDates(after))
	require.Equal(t, date("2026-02-22"), after[0].EndDate)
	require.Equal(t, date("2026-03-15"), after[1].EndDate)
}

func TestCalculateNewStaffChangesEmptyCycleAnchorsAtStart(t *testing.T) {
	cycles := []Cycle{{ID: 5, Type: TypeSaturdaySolo, StartDate: date("2026-02-07"), EndDate: date("2026-02-07")}}

	changes, err := CalculateNewStaffChanges(cycles, 7, NewHolidaySet())
	require.NoError(t, err)
	require.Len(t, changes.EventsToCreate, 1)
	require.Equal(t, date("2026-02-14"), changes.EventsToCreate[0].Date)
}

func TestCalculateStaffLeaveChangesMidCycle(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
		Event{ID: 3, CycleID: 1, Date: date("2024-01-20"), StaffIDs: []int64{3}},
	)}
	snapshot := CloneCycles(cycles)

	changes, err := CalculateStaffLeaveChanges(cycles, 2, date("2024-01-01"), NewHolidaySet())
	require.NoError(t, err)

	require.Equal(t, []ParticipantRemoval{{EventID: 2, StaffID: 2}}, changes.ParticipantsToDelete)
	// The event after the departed slot closes the gap.
	require.Equal(t, []EventDateUpdate{{EventID: 3, NewDate: date("2024-01-13")}}, changes.EventsToUpdate)
	require.Empty(t, changes.EventsToCreate)

	require.Equal(t, snapshot, cycles, "input snapshot must not be mutated")

	after := ApplyChangesToCycles(cycles, changes)
	require.Len(t, after[0].Events, 2)
	require.Equal(t, date("2024-01-13"), after[0].EndDate)
	require.NoError(t, ValidateNoDuplicateDates(after))
}

func TestCalculateStaffLeaveChangesFirstEvent(t *testing.T) {
	// Cycle start is one recurrence before the first event, so dropping
	// the first slot pulls the second onto its date.
	c := Cycle{ID: 1, Type: TypeSaturdaySolo, StartDate: date("2023-12-30"), Events: []Event{
		{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
	}}
	c.refreshEndDate()

	changes, err := CalculateStaffLeaveChanges([]Cycle{c}, 1, date("2024-01-01"), NewHolidaySet())
	require.NoError(t, err)
	require.Equal(t, []ParticipantRemoval{{EventID: 1, StaffID: 1}}, changes.ParticipantsToDelete)
	require.Equal(t, []EventDateUpdate{{EventID: 2, NewDate: date("2024-01-06")}}, changes.EventsToUpdate)
}

func TestCalculateStaffLeaveChangesPastEventsUntouched(t *testing.T) {
	cycles := []Cycle{saturdayCycle(1,
		Event{ID: 1, CycleID: 1, Date: date("2024-01-06"), StaffIDs: []int64{1}},
		Event{ID: 2, CycleID: 1, Date: date("2024-01-13"), StaffIDs: []int64{2}},
	)}

	t.Run("no future slot means zero changes", func(t *testing.T) {
		changes, err := CalculateStaffLeaveChanges(cycles, 1, date("2024-01-10"), NewHolidaySet())
		require.NoError(t, err)
		require.True(t, changes.IsEmpty())
	})

	t.Run("unknown staff means zero changes", func(t *testing.T) {
		changes, err := CalculateStaffLeaveChanges(cycles, 99, date("2024-01-01"), NewHolidaySet())
		require.NoError(t, err)
		require.True(t, changes.IsEmpty())
	})
}

func TestApplyChangesToCyclesDropsEmptiedEvents(t *testing.T) {
	cycles := []Cycle{{ID: 1, Type: TypeWeekdayPair, StartDate: date("2024-01-08"), EndDate: date("2024-01-09"), Events: []Event{
		{ID: 1, CycleID: 1, Date: date("2024-01-08"), StaffIDs: []int64{1, 2}},
		{ID: 2, CycleID: 1, Date: date("2024-01-09"), StaffIDs: []int64{3}},
	}}}

	changes := ScheduleChanges{
		ParticipantsToDelete: []ParticipantRemoval{
			{EventID: 1, StaffID: 2},
			{EventID: 2, StaffID: 3},
		},
	}

	after := ApplyChangesToCycles(cycles, changes)
	require.Len(t, after[0].Events, 1)
	require.Equal(t, []int64{1}, after[0].Events[0].StaffIDs)
	// Original snapshot untouched.
	require.Len(t, cycles[0].Events, 2)
	require.Equal(t, []int64{1, 2}, cycles[0].Events[0].StaffIDs)
}
