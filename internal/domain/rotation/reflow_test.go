package rotation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftScheduleClosesGaps(t *testing.T) {
	events := []Event{
		{ID: 1, CycleID: 1, Date: date("2024-01-08"), StaffIDs: []int64{1, 2}},
		{ID: 2, CycleID: 1, Date: date("2024-01-09"), StaffIDs: []int64{3, 4}},
		{ID: 3, CycleID: 1, Date: date("2024-01-10"), StaffIDs: []int64{5}},
	}
	cfg := NewConfig(TypeWeekdayPair, date("2024-01-08"), NewHolidaySet())

	slots, err := ShiftSchedule(events, []int64{2}, cfg)
	require.NoError(t, err)

	// Survivor order 1,3,4,5 re-chunks into pairs: losing one half of the
	// first pair pulls the next survivor forward into that slot.
	require.Len(t, slots, 2)
	require.Equal(t, []int64{1, 3}, slots[0].StaffIDs)
	require.Equal(t, []int64{4, 5}, slots[1].StaffIDs)
	require.Equal(t, date("2024-01-08"), slots[0].Date)
	require.Equal(t, date("2024-01-09"), slots[1].Date)
}

func TestShiftSchedulePreservesSurvivorOrder(t *testing.T) {
	events := []Event{
		{ID: 1, Date: date("2024-01-06"), StaffIDs: []int64{10}},
		{ID: 2, Date: date("2024-01-13"), StaffIDs: []int64{20}},
		{ID: 3, Date: date("2024-01-20"), StaffIDs: []int64{30}},
		{ID: 4, Date: date("2024-01-27"), StaffIDs: []int64{40}},
	}
	cfg := NewConfig(TypeSaturdaySolo, date("2024-01-06"), NewHolidaySet())

	slots, err := ShiftSchedule(events, []int64{20}, cfg)
	require.NoError(t, err)
	require.Equal(t, []int64{10, 30, 40}, flattenSlots(slots))
	require.Equal(t, date("2024-01-06"), slots[0].Date)
	require.Equal(t, date("2024-01-13"), slots[1].Date)
	require.Equal(t, date("2024-01-20"), slots[2].Date)
}

func TestShiftScheduleAnchorsAtFirstEventDate(t *testing.T) {
	events := []Event{
		{ID: 1, Date: date("2024-01-10"), StaffIDs: []int64{1, 2}},
		{ID: 2, Date: date("2024-01-12"), StaffIDs: []int64{3, 4}},
	}
	cfg := NewConfig(TypeWeekdayPair, date("2024-01-01"), NewHolidaySet())

	slots, err := ShiftSchedule(events, []int64{3}, cfg)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	// The anchor is the schedule's own first date, not the config start.
	require.Equal(t, date("2024-01-10"), slots[0].Date)
	require.Equal(t, date("2024-01-11"), slots[1].Date)
	require.Equal(t, []int64{4}, slots[1].StaffIDs)
}

func TestShiftScheduleEdgeCases(t *testing.T) {
	cfg := NewConfig(TypeWeekdayPair, date("2024-01-08"), NewHolidaySet())

	t.Run("empty input yields empty output", func(t *testing.T) {
		slots, err := ShiftSchedule(nil, []int64{1}, cfg)
		require.NoError(t, err)
		require.Empty(t, slots)
	})

	t.Run("removing everyone yields empty output", func(t *testing.T) {
		events := []Event{{ID: 1, Date: date("2024-01-08"), StaffIDs: []int64{1, 2}}}
		slots, err := ShiftSchedule(events, []int64{1, 2}, cfg)
		require.NoError(t, err)
		require.Empty(t, slots)
	})

	t.Run("input events are not mutated", func(t *testing.T) {
		events := []Event{
			{ID: 1, Date: date("2024-01-08"), StaffIDs: []int64{1, 2}},
			{ID: 2, Date: date("2024-01-09"), StaffIDs: []int64{3, 4}},
		}
		snapshot := CloneCycles([]Cycle{{Events: events}})
		_, err := ShiftSchedule(events, []int64{1}, cfg)
		require.NoError(t, err)
		require.Equal(t, snapshot[0].Events, events)
	})
}
