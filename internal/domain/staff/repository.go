package staff

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Staff entities.
type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id int64) (*Staff, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*Staff, error)
	Update(ctx context.Context, s *Staff) error // Handles updates to DisplayName, IsActive
	ListActive(ctx context.Context) ([]*Staff, error)
	ListAll(ctx context.Context) ([]*Staff, error) // For admin purposes
}
