package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"duty_rotation_bot/internal/domain/rotation"
)

type PostgresHolidayRepository struct {
	db *sql.DB
}

func NewPostgresHolidayRepository(db *sql.DB) *PostgresHolidayRepository {
	return &PostgresHolidayRepository{db: db}
}

// Add inserts the date into the holiday table; inserting the same date
// twice is harmless.
func (r *PostgresHolidayRepository) Add(ctx context.Context, date time.Time) error {
	query := `INSERT INTO holidays (holiday_date) VALUES ($1) ON CONFLICT (holiday_date) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, rotation.Date(date)); err != nil {
		return fmt.Errorf("error adding holiday: %w", err)
	}
	return nil
}

func (r *PostgresHolidayRepository) ListAll(ctx context.Context) (rotation.HolidaySet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT holiday_date FROM holidays`)
	if err != nil {
		return nil, fmt.Errorf("error listing holidays: %w", err)
	}
	defer rows.Close()

	set := rotation.NewHolidaySet()
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning holiday: %w", err)
		}
		set.Add(d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}
	return set, nil
}
