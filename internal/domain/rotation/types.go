// internal/domain/rotation/types.go
package rotation

import (
	"sort"
	"time"
)

// ScheduleType selects the weekday rule and the slot size for a rotation.
type ScheduleType string

const (
	// TypeWeekdayPair is the cleaning rotation: Mon-Fri, two staff per slot.
	TypeWeekdayPair ScheduleType = "WEEKDAY_PAIR"
	// TypeSaturdaySolo is the open-talk rotation: Saturdays, one presenter per slot.
	TypeSaturdaySolo ScheduleType = "SATURDAY_SOLO"
)

// SlotSize returns how many staff members share one slot of this type.
func (t ScheduleType) SlotSize() int {
	if t == TypeWeekdayPair {
		return 2
	}
	return 1
}

// Date normalizes a timestamp to its calendar date (midnight UTC). Every
// date the core stores or compares is normalized through here.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date, e.g. "2026-01-18".
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate renders a normalized date back to its ISO form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// HolidaySet is a set of calendar dates that are excluded from scheduling
// regardless of weekday.
type HolidaySet map[time.Time]struct{}

// NewHolidaySet builds a set from the given dates, normalizing each one.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[Date(d)] = struct{}{}
	}
	return s
}

// Contains reports whether the set includes the given date.
func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[Date(d)]
	return ok
}

// Add inserts a date into the set.
func (s HolidaySet) Add(d time.Time) {
	s[Date(d)] = struct{}{}
}

// Event is one persisted dated assignment inside a cycle.
type Event struct {
	ID       int64
	CycleID  int64
	Date     time.Time
	StaffIDs []int64 // assignment order is meaningful and preserved
}

func (e Event) clone() Event {
	c := e
	c.StaffIDs = append([]int64(nil), e.StaffIDs...)
	return c
}

// Slot is a planned assignment that persistence has not seen yet. It
// deliberately carries no id: a slot becomes an Event only once storage
// assigns one.
type Slot struct {
	Date     time.Time
	StaffIDs []int64
}

// Cycle is one bounded run of a rotation with its dated events.
type Cycle struct {
	ID        int64
	Type      ScheduleType
	StartDate time.Time
	EndDate   time.Time
	Events    []Event // ordered by date ascending
}

// Clone deep-copies the cycle, including every event's staff list.
func (c Cycle) Clone() Cycle {
	out := c
	out.Events = make([]Event, len(c.Events))
	for i, e := range c.Events {
		out.Events[i] = e.clone()
	}
	return out
}

// CloneCycles deep-copies a snapshot so the core can project changes
// without mutating its input.
func CloneCycles(cycles []Cycle) []Cycle {
	out := make([]Cycle, len(cycles))
	for i, c := range cycles {
		out[i] = c.Clone()
	}
	return out
}

func (c *Cycle) sortEvents() {
	sort.SliceStable(c.Events, func(i, j int) bool {
		return c.Events[i].Date.Before(c.Events[j].Date)
	})
}

// refreshEndDate recomputes EndDate from the event set. An emptied cycle
// keeps its previous end date.
func (c *Cycle) refreshEndDate() {
	if len(c.Events) == 0 {
		return
	}
	max := c.Events[0].Date
	for _, e := range c.Events[1:] {
		if e.Date.After(max) {
			max = e.Date
		}
	}
	c.EndDate = max
}

func lastEventDate(c *Cycle) time.Time {
	var last time.Time
	for _, e := range c.Events {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return last
}

func sortCyclesByStart(cycles []Cycle) {
	sort.SliceStable(cycles, func(i, j int) bool {
		return cycles[i].StartDate.Before(cycles[j].StartDate)
	})
}

// Config carries everything the pure scheduling functions need: the slot
// rule, the packing anchor, and the holiday set.
type Config struct {
	Type      ScheduleType
	StartDate time.Time
	SlotSize  int
	Holidays  HolidaySet
}

// NewConfig builds a Config with the slot size derived from the type.
func NewConfig(typ ScheduleType, startDate time.Time, holidays HolidaySet) Config {
	return Config{
		Type:      typ,
		StartDate: Date(startDate),
		SlotSize:  typ.SlotSize(),
		Holidays:  holidays,
	}
}

// EventCreate is a planned event for persistence to insert. It has no id
// by construction; storage assigns one.
type EventCreate struct {
	CycleID int64
	Date    time.Time
	StaffID int64
}

// EventDateUpdate moves an already persisted event to a new date.
type EventDateUpdate struct {
	EventID int64
	NewDate time.Time
}

// ParticipantRemoval detaches a staff member from a persisted event.
// Persistence drops the event entirely once its last participant is gone.
type ParticipantRemoval struct {
	EventID int64
	StaffID int64
}

// ScheduleChanges is the sole contract between the core and persistence:
// the core computes a change-set from an immutable snapshot and the caller
// applies it as one unit.
type ScheduleChanges struct {
	EventsToCreate       []EventCreate
	EventsToUpdate       []EventDateUpdate
	ParticipantsToDelete []ParticipantRemoval
}

// IsEmpty reports whether the change-set carries no work at all.
func (c ScheduleChanges) IsEmpty() bool {
	return len(c.EventsToCreate) == 0 && len(c.EventsToUpdate) == 0 && len(c.ParticipantsToDelete) == 0
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ValidateNoDuplicateDates checks invariant holding after any core
// operation: within one cycle no two events share a date. A violation
// indicates a bug in the reflow or cascade logic, not a caller mistake.
func ValidateNoDuplicateDates(cycles []Cycle) error {
	for _, c := range cycles {
		seen := make(map[time.Time]struct{}, len(c.Events))
		for _, e := range c.Events {
			d := Date(e.Date)
			if _, dup := seen[d]; dup {
				return ErrDuplicateDate
			}
			seen[d] = struct{}{}
		}
	}
	return nil
}
