// internal/app/rotation_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"duty_rotation_bot/internal/domain/rotation"
	"duty_rotation_bot/internal/domain/staff"
	domainTelegram "duty_rotation_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// RotationService defines the operations that keep the duty rotations
// consistent as the world changes: cycles roll over, staff join or leave,
// holidays get declared, and events get moved by hand. Each trigger reads
// one consistent snapshot, runs the pure rotation core, and applies the
// resulting change-set as a single unit.
type RotationService interface {
	InitiateRotation(ctx context.Context, typ rotation.ScheduleType, startDate time.Time) (*rotation.Cycle, error)
	ProcessStaffActivated(ctx context.Context, staffID int64) error
	ProcessStaffDeactivated(ctx context.Context, staffID int64, today time.Time) error
	ProcessHolidayAdded(ctx context.Context, holidayDate time.Time) error
	ProcessEventMove(ctx context.Context, eventID int64, newDate time.Time) error
	AnnounceUpcoming(ctx context.Context, from time.Time) error
}

// RotationServiceImpl implements the RotationService interface.
type RotationServiceImpl struct {
	staffRepo      staff.Repository
	rotationRepo   rotation.Repository
	holidayRepo    rotation.HolidayRepository
	generator      *rotation.Generator
	telegramClient domainTelegram.Client
	logger         *logrus.Entry
	announceChatID int64
}

func NewRotationServiceImpl(
	sr staff.Repository,
	rr rotation.Repository,
	hr rotation.HolidayRepository,
	gen *rotation.Generator,
	tc domainTelegram.Client,
	logger *logrus.Entry,
	announceChatID int64,
) *RotationServiceImpl {
	return &RotationServiceImpl{
		staffRepo:      sr,
		rotationRepo:   rr,
		holidayRepo:    hr,
		generator:      gen,
		telegramClient: tc,
		logger:         logger,
		announceChatID: announceChatID,
	}
}

// InitiateRotation builds and persists a brand-new cycle for the given
// schedule type, covering every active staff member exactly once. The
// latest existing cycle feeds the generator's fairness weighting.
func (s *RotationServiceImpl) InitiateRotation(ctx context.Context, typ rotation.ScheduleType, startDate time.Time) (*rotation.Cycle, error) {
	logCtx := s.logger.WithFields(logrus.Fields{"schedule_type": typ, "start_date": rotation.FormatDate(rotation.Date(startDate))})
	logCtx.Info("Initiating new rotation cycle")

	activeStaff, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	if len(activeStaff) == 0 {
		logCtx.Info("No active staff; no cycle generated")
		return nil, nil
	}
	staffIDs := make([]int64, len(activeStaff))
	for i, m := range activeStaff {
		staffIDs[i] = m.ID
	}

	holidays, err := s.holidayRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	existing, err := s.rotationRepo.ListCyclesByType(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	var previous *rotation.Cycle
	if len(existing) > 0 {
		previous = &existing[len(existing)-1]
	}

	cfg := rotation.NewConfig(typ, startDate, holidays)
	slots, err := s.generator.GenerateNewCycle(staffIDs, previous, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cycle: %w", err)
	}

	cycle := &rotation.Cycle{Type: typ, StartDate: cfg.StartDate, EndDate: cfg.StartDate}
	for _, slot := range slots {
		cycle.Events = append(cycle.Events, rotation.Event{Date: slot.Date, StaffIDs: slot.StaffIDs})
	}
	if len(slots) > 0 {
		cycle.EndDate = slots[len(slots)-1].Date
	}

	if err := s.rotationRepo.CreateCycle(ctx, cycle); err != nil {
		return nil, fmt.Errorf("failed to persist new cycle: %w", err)
	}
	logCtx.WithFields(logrus.Fields{"cycle_id": cycle.ID, "events": len(cycle.Events)}).Info("New rotation cycle created")

	s.announce(fmt.Sprintf("Новый цикл дежурств (%s): %d слотов, с %s по %s.",
		scheduleTypeLabel(typ), len(cycle.Events), rotation.FormatDate(cycle.StartDate), rotation.FormatDate(cycle.EndDate)))
	return cycle, nil
}

// ProcessStaffActivated appends the newly active staff member to every
// open-talk cycle and cascades any boundary overlap into following cycles.
func (s *RotationServiceImpl) ProcessStaffActivated(ctx context.Context, staffID int64) error {
	logCtx := s.logger.WithField("staff_id", staffID)
	logCtx.Info("Processing staff activation")

	member, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return fmt.Errorf("failed to get staff %d: %w", staffID, err)
	}

	cycles, holidays, err := s.loadSaturdaySnapshot(ctx)
	if err != nil {
		return err
	}

	changes, err := rotation.CalculateNewStaffChanges(cycles, staffID, holidays)
	if err != nil {
		return fmt.Errorf("failed to calculate onboarding changes: %w", err)
	}
	if changes.IsEmpty() {
		logCtx.Info("No open-talk cycles to extend; nothing to do")
		return nil
	}

	if err := s.rotationRepo.ApplyChanges(ctx, changes); err != nil {
		return fmt.Errorf("failed to apply onboarding changes: %w", err)
	}

	after := rotation.ApplyChangesToCycles(cycles, changes)
	logCtx.WithFields(logrus.Fields{
		"created": len(changes.EventsToCreate),
		"updated": len(changes.EventsToUpdate),
	}).Info("Staff onboarded into open-talk rotation")

	var dates []string
	for _, cr := range changes.EventsToCreate {
		dates = append(dates, rotation.FormatDate(cr.Date))
	}
	s.announce(fmt.Sprintf("%s теперь в ротации открытых выступлений: %s. Сдвинуто выступлений: %d. Последняя дата цикла: %s.",
		member.DisplayName, strings.Join(dates, ", "), len(changes.EventsToUpdate),
		rotation.FormatDate(after[len(after)-1].EndDate)))
	return nil
}

// ProcessStaffDeactivated removes the staff member's future open-talk
// slots, closes the gaps, and cascades boundary shifts. Past events stay
// as they were.
func (s *RotationServiceImpl) ProcessStaffDeactivated(ctx context.Context, staffID int64, today time.Time) error {
	logCtx := s.logger.WithField("staff_id", staffID)
	logCtx.Info("Processing staff deactivation")

	member, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return fmt.Errorf("failed to get staff %d: %w", staffID, err)
	}

	cycles, holidays, err := s.loadSaturdaySnapshot(ctx)
	if err != nil {
		return err
	}

	changes, err := rotation.CalculateStaffLeaveChanges(cycles, staffID, today, holidays)
	if err != nil {
		return fmt.Errorf("failed to calculate leave changes: %w", err)
	}
	if changes.IsEmpty() {
		logCtx.Info("Staff has no future open-talk slots; nothing to do")
		return nil
	}

	if err := s.rotationRepo.ApplyChanges(ctx, changes); err != nil {
		return fmt.Errorf("failed to apply leave changes: %w", err)
	}
	logCtx.WithFields(logrus.Fields{
		"removed_slots": len(changes.ParticipantsToDelete),
		"updated":       len(changes.EventsToUpdate),
	}).Info("Staff removed from open-talk rotation")

	s.announce(fmt.Sprintf("%s выбывает из ротации открытых выступлений. Освобождено слотов: %d, сдвинуто выступлений: %d.",
		member.DisplayName, len(changes.ParticipantsToDelete), len(changes.EventsToUpdate)))
	return nil
}

// ProcessHolidayAdded persists the holiday and ripples its effect through
// both rotations. A holiday that coincides with no event is a successful
// zero-change outcome.
func (s *RotationServiceImpl) ProcessHolidayAdded(ctx context.Context, holidayDate time.Time) error {
	day := rotation.Date(holidayDate)
	logCtx := s.logger.WithField("holiday", rotation.FormatDate(day))
	logCtx.Info("Processing new holiday")

	if err := s.holidayRepo.Add(ctx, day); err != nil {
		return fmt.Errorf("failed to persist holiday: %w", err)
	}
	holidays, err := s.holidayRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}

	totalShifted := 0
	for _, typ := range []rotation.ScheduleType{rotation.TypeWeekdayPair, rotation.TypeSaturdaySolo} {
		cycles, err := s.rotationRepo.ListCyclesByType(ctx, typ)
		if err != nil {
			return fmt.Errorf("failed to list %s cycles: %w", typ, err)
		}
		changes, err := rotation.CalculateHolidayChanges(cycles, day, typ, holidays)
		if err != nil {
			return fmt.Errorf("failed to calculate holiday ripple for %s: %w", typ, err)
		}
		if changes.IsEmpty() {
			continue
		}
		if err := s.rotationRepo.ApplyChanges(ctx, changes); err != nil {
			return fmt.Errorf("failed to apply holiday ripple for %s: %w", typ, err)
		}
		totalShifted += len(changes.EventsToUpdate)
	}

	if totalShifted == 0 {
		logCtx.Info("Holiday coincides with no scheduled event; zero changes")
		return nil
	}
	logCtx.WithField("shifted_events", totalShifted).Info("Holiday ripple applied")
	s.announce(fmt.Sprintf("Выходной %s: перенесено дежурств и выступлений: %d.", rotation.FormatDate(day), totalShifted))
	return nil
}

// ProcessEventMove honors a manual reschedule of one event, cascading any
// collisions forward within its cycle.
func (s *RotationServiceImpl) ProcessEventMove(ctx context.Context, eventID int64, newDate time.Time) error {
	day := rotation.Date(newDate)
	logCtx := s.logger.WithFields(logrus.Fields{"event_id": eventID, "new_date": rotation.FormatDate(day)})
	logCtx.Info("Processing manual event move")

	typ, err := s.rotationRepo.FindCycleTypeByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to resolve event %d: %w", eventID, err)
	}

	holidays, err := s.holidayRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}
	cycles, err := s.rotationRepo.ListCyclesByType(ctx, typ)
	if err != nil {
		return fmt.Errorf("failed to list cycles: %w", err)
	}

	result, err := rotation.ResolveEventMove(cycles, eventID, day, typ, holidays)
	if err != nil {
		return fmt.Errorf("failed to resolve event move: %w", err)
	}

	updates := result.DateUpdates()
	if len(updates) == 0 {
		logCtx.Info("Event already on requested date; zero changes")
		return nil
	}
	if err := s.rotationRepo.ApplyChanges(ctx, rotation.ScheduleChanges{EventsToUpdate: updates}); err != nil {
		return fmt.Errorf("failed to apply event move: %w", err)
	}
	logCtx.WithField("moved_events", len(updates)).Info("Event move applied")

	s.announce(fmt.Sprintf("Событие перенесено на %s; затронуто записей: %d.", rotation.FormatDate(day), len(updates)))
	return nil
}

// AnnounceUpcoming posts a digest of the next seven days of duty slots to
// the announce chat. A week without slots produces no message.
func (s *RotationServiceImpl) AnnounceUpcoming(ctx context.Context, from time.Time) error {
	start := rotation.Date(from)
	end := start.AddDate(0, 0, 7)

	members, err := s.staffRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list staff: %w", err)
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
	}

	var lines []string
	for _, typ := range []rotation.ScheduleType{rotation.TypeWeekdayPair, rotation.TypeSaturdaySolo} {
		cycles, err := s.rotationRepo.ListCyclesByType(ctx, typ)
		if err != nil {
			return fmt.Errorf("failed to list %s cycles: %w", typ, err)
		}
		for _, c := range cycles {
			for _, ev := range c.Events {
				if ev.Date.Before(start) || !ev.Date.Before(end) {
					continue
				}
				assigned := make([]string, 0, len(ev.StaffIDs))
				for _, id := range ev.StaffIDs {
					if name, ok := names[id]; ok {
						assigned = append(assigned, name)
					} else {
						assigned = append(assigned, fmt.Sprintf("#%d", id))
					}
				}
				lines = append(lines, fmt.Sprintf("%s — %s: %s",
					rotation.FormatDate(ev.Date), scheduleTypeLabel(typ), strings.Join(assigned, ", ")))
			}
		}
	}

	if len(lines) == 0 {
		s.logger.Info("No duty slots in the coming week; digest skipped")
		return nil
	}
	s.announce("Дежурства на неделю:\n" + strings.Join(lines, "\n"))
	return nil
}

func (s *RotationServiceImpl) loadSaturdaySnapshot(ctx context.Context) ([]rotation.Cycle, rotation.HolidaySet, error) {
	holidays, err := s.holidayRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	cycles, err := s.rotationRepo.ListCyclesByType(ctx, rotation.TypeSaturdaySolo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list open-talk cycles: %w", err)
	}
	return cycles, holidays, nil
}

func (s *RotationServiceImpl) announce(text string) {
	if s.announceChatID == 0 {
		s.logger.Warn("Announce chat ID not configured; skipping announcement")
		return
	}
	if err := s.telegramClient.SendMessage(s.announceChatID, text, nil); err != nil {
		s.logger.WithError(err).Error("Failed to send announcement")
	}
}

func scheduleTypeLabel(typ rotation.ScheduleType) string {
	if typ == rotation.TypeWeekdayPair {
		return "уборка"
	}
	return "открытые выступления"
}
