package database

import (
	"context"
	"database/sql"
	"fmt"

	"duty_rotation_bot/internal/domain/rotation"

	"github.com/lib/pq"
)

// Custom errors
var ErrCycleNotFound = fmt.Errorf("rotation cycle not found")
var ErrEventNotFound = fmt.Errorf("rotation event not found")

type PostgresRotationRepository struct {
	db *sql.DB
}

func NewPostgresRotationRepository(db *sql.DB) *PostgresRotationRepository {
	return &PostgresRotationRepository{db: db}
}

// CreateCycle persists the cycle and its nested events in one transaction,
// filling in the generated ids on the passed structures.
func (r *PostgresRotationRepository) CreateCycle(ctx context.Context, cycle *rotation.Cycle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO rotation_cycles (schedule_type, start_date, end_date)
               VALUES ($1, $2, $3)
               RETURNING id`
	if err := tx.QueryRowContext(ctx, query, string(cycle.Type), cycle.StartDate, cycle.EndDate).Scan(&cycle.ID); err != nil {
		return fmt.Errorf("error creating rotation cycle: %w", err)
	}

	for i := range cycle.Events {
		ev := &cycle.Events[i]
		ev.CycleID = cycle.ID
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO rotation_events (cycle_id, event_date) VALUES ($1, $2) RETURNING id`,
			cycle.ID, ev.Date).Scan(&ev.ID); err != nil {
			return fmt.Errorf("error creating rotation event: %w", err)
		}
		for pos, staffID := range ev.StaffIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO rotation_event_participants (event_id, staff_id, position) VALUES ($1, $2, $3)`,
				ev.ID, staffID, pos); err != nil {
				return fmt.Errorf("error creating event participant: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing cycle creation: %w", err)
	}
	return nil
}

func (r *PostgresRotationRepository) GetCycleByID(ctx context.Context, id int64) (*rotation.Cycle, error) {
	query := `SELECT id, schedule_type, start_date, end_date FROM rotation_cycles WHERE id = $1`
	c := rotation.Cycle{}
	var typ string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &typ, &c.StartDate, &c.EndDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCycleNotFound
		}
		return nil, fmt.Errorf("error getting cycle by ID: %w", err)
	}
	c.Type = rotation.ScheduleType(typ)
	c.StartDate = rotation.Date(c.StartDate)
	c.EndDate = rotation.Date(c.EndDate)

	if err := r.loadEvents(ctx, map[int64]*rotation.Cycle{c.ID: &c}); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCyclesByType returns all cycles of a schedule type ordered by start
// date, each with its events ordered by date and participants in
// assignment order.
func (r *PostgresRotationRepository) ListCyclesByType(ctx context.Context, typ rotation.ScheduleType) ([]rotation.Cycle, error) {
	query := `SELECT id, schedule_type, start_date, end_date
               FROM rotation_cycles WHERE schedule_type = $1 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, string(typ))
	if err != nil {
		return nil, fmt.Errorf("error listing cycles: %w", err)
	}
	defer rows.Close()

	cycles := make([]rotation.Cycle, 0)
	for rows.Next() {
		c := rotation.Cycle{}
		var t string
		if err := rows.Scan(&c.ID, &t, &c.StartDate, &c.EndDate); err != nil {
			return nil, fmt.Errorf("error scanning cycle: %w", err)
		}
		c.Type = rotation.ScheduleType(t)
		c.StartDate = rotation.Date(c.StartDate)
		c.EndDate = rotation.Date(c.EndDate)
		cycles = append(cycles, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycles: %w", err)
	}

	byID := make(map[int64]*rotation.Cycle, len(cycles))
	for i := range cycles {
		byID[cycles[i].ID] = &cycles[i]
	}
	if err := r.loadEvents(ctx, byID); err != nil {
		return nil, err
	}
	return cycles, nil
}

func (r *PostgresRotationRepository) loadEvents(ctx context.Context, cycles map[int64]*rotation.Cycle) error {
	if len(cycles) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(cycles))
	for id := range cycles {
		ids = append(ids, id)
	}

	query := `SELECT e.id, e.cycle_id, e.event_date, p.staff_id
               FROM rotation_events e
               JOIN rotation_event_participants p ON p.event_id = e.id
               WHERE e.cycle_id = ANY($1)
               ORDER BY e.cycle_id, e.event_date, p.position`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error loading cycle events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev rotation.Event
		var staffID int64
		if err := rows.Scan(&ev.ID, &ev.CycleID, &ev.Date, &staffID); err != nil {
			return fmt.Errorf("error scanning event row: %w", err)
		}
		ev.Date = rotation.Date(ev.Date)
		cycle := cycles[ev.CycleID]
		if n := len(cycle.Events); n > 0 && cycle.Events[n-1].ID == ev.ID {
			cycle.Events[n-1].StaffIDs = append(cycle.Events[n-1].StaffIDs, staffID)
			continue
		}
		ev.StaffIDs = []int64{staffID}
		cycle.Events = append(cycle.Events, ev)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating event rows: %w", err)
	}
	return nil
}

func (r *PostgresRotationRepository) FindCycleTypeByEventID(ctx context.Context, eventID int64) (rotation.ScheduleType, error) {
	query := `SELECT c.schedule_type
               FROM rotation_events e
               JOIN rotation_cycles c ON c.id = e.cycle_id
               WHERE e.id = $1`
	var typ string
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&typ)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrEventNotFound
		}
		return "", fmt.Errorf("error resolving event cycle type: %w", err)
	}
	return rotation.ScheduleType(typ), nil
}

// ApplyChanges applies one computed change-set within a single
// transaction: event creations, date moves, participant removals (events
// left without participants are dropped), and an end-date refresh for
// every touched cycle. The core guarantees the set is internally
// consistent; this method only makes it durable atomically.
func (r *PostgresRotationRepository) ApplyChanges(ctx context.Context, changes rotation.ScheduleChanges) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	touchedCycles := make(map[int64]struct{})

	// Resolve the cycle of every referenced event up front, before deletes
	// can make the mapping unreachable.
	eventIDs := make([]int64, 0, len(changes.EventsToUpdate)+len(changes.ParticipantsToDelete))
	for _, u := range changes.EventsToUpdate {
		eventIDs = append(eventIDs, u.EventID)
	}
	for _, d := range changes.ParticipantsToDelete {
		eventIDs = append(eventIDs, d.EventID)
	}
	if len(eventIDs) > 0 {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, cycle_id FROM rotation_events WHERE id = ANY($1)`, pq.Array(eventIDs))
		if err != nil {
			return fmt.Errorf("error resolving event cycles: %w", err)
		}
		found := make(map[int64]struct{}, len(eventIDs))
		for rows.Next() {
			var id, cycleID int64
			if err := rows.Scan(&id, &cycleID); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning event cycle: %w", err)
			}
			found[id] = struct{}{}
			touchedCycles[cycleID] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating event cycles: %w", err)
		}
		for _, id := range eventIDs {
			if _, ok := found[id]; !ok {
				return ErrEventNotFound
			}
		}
	}

	for _, cr := range changes.EventsToCreate {
		var eventID int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO rotation_events (cycle_id, event_date) VALUES ($1, $2) RETURNING id`,
			cr.CycleID, cr.Date).Scan(&eventID); err != nil {
			return fmt.Errorf("error creating event: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rotation_event_participants (event_id, staff_id, position) VALUES ($1, $2, 0)`,
			eventID, cr.StaffID); err != nil {
			return fmt.Errorf("error creating event participant: %w", err)
		}
		touchedCycles[cr.CycleID] = struct{}{}
	}

	for _, u := range changes.EventsToUpdate {
		if _, err := tx.ExecContext(ctx,
			`UPDATE rotation_events SET event_date = $1 WHERE id = $2`, u.NewDate, u.EventID); err != nil {
			return fmt.Errorf("error moving event %d: %w", u.EventID, err)
		}
	}

	for _, d := range changes.ParticipantsToDelete {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM rotation_event_participants WHERE event_id = $1 AND staff_id = $2`,
			d.EventID, d.StaffID); err != nil {
			return fmt.Errorf("error removing participant: %w", err)
		}
		// An event without participants is a gap, not a record.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM rotation_events e WHERE e.id = $1
               AND NOT EXISTS (SELECT 1 FROM rotation_event_participants p WHERE p.event_id = e.id)`,
			d.EventID); err != nil {
			return fmt.Errorf("error pruning empty event: %w", err)
		}
	}

	for cycleID := range touchedCycles {
		if _, err := tx.ExecContext(ctx,
			`UPDATE rotation_cycles c
               SET end_date = (SELECT MAX(event_date) FROM rotation_events WHERE cycle_id = c.id)
               WHERE c.id = $1
               AND EXISTS (SELECT 1 FROM rotation_events WHERE cycle_id = c.id)`,
			cycleID); err != nil {
			return fmt.Errorf("error refreshing cycle end date: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing schedule changes: %w", err)
	}
	return nil
}
