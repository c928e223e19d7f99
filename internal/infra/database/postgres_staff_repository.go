package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"duty_rotation_bot/internal/domain/staff"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrStaffNotFound = fmt.Errorf("staff member not found")
var ErrDuplicateTelegramID = fmt.Errorf("staff member with this Telegram ID already exists")

type PostgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

func (r *PostgresStaffRepository) Create(ctx context.Context, s *staff.Staff) error {
	query := `INSERT INTO staff (telegram_id, display_name, is_active)
               VALUES ($1, $2, $3)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, s.TelegramID, s.DisplayName, s.IsActive).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		// Basic check for unique violation on telegram_id.
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "staff_telegram_id_key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating staff member: %w", err)
	}
	return nil
}

func (r *PostgresStaffRepository) GetByID(ctx context.Context, id int64) (*staff.Staff, error) {
	query := `SELECT id, telegram_id, display_name, is_active, created_at, updated_at
               FROM staff WHERE id = $1`
	s := &staff.Staff{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.TelegramID, &s.DisplayName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("error getting staff by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresStaffRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*staff.Staff, error) {
	query := `SELECT id, telegram_id, display_name, is_active, created_at, updated_at
               FROM staff WHERE telegram_id = $1`
	s := &staff.Staff{}
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&s.ID, &s.TelegramID, &s.DisplayName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("error getting staff by Telegram ID: %w", err)
	}
	return s, nil
}

func (r *PostgresStaffRepository) Update(ctx context.Context, s *staff.Staff) error {
	query := `UPDATE staff
               SET display_name = $1, is_active = $2, updated_at = NOW()
               WHERE id = $3
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, s.DisplayName, s.IsActive, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStaffNotFound
		}
		return fmt.Errorf("error updating staff member: %w", err)
	}
	return nil
}

func (r *PostgresStaffRepository) ListActive(ctx context.Context) ([]*staff.Staff, error) {
	query := `SELECT id, telegram_id, display_name, is_active, created_at, updated_at
               FROM staff WHERE is_active = TRUE ORDER BY display_name`
	return r.list(ctx, query)
}

func (r *PostgresStaffRepository) ListAll(ctx context.Context) ([]*staff.Staff, error) {
	query := `SELECT id, telegram_id, display_name, is_active, created_at, updated_at
               FROM staff ORDER BY id`
	return r.list(ctx, query)
}

func (r *PostgresStaffRepository) list(ctx context.Context, query string) ([]*staff.Staff, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing staff: %w", err)
	}
	defer rows.Close()

	members := make([]*staff.Staff, 0)
	for rows.Next() {
		s := &staff.Staff{}
		if err := rows.Scan(&s.ID, &s.TelegramID, &s.DisplayName, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning staff member: %w", err)
		}
		members = append(members, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}
	return members, nil
}
