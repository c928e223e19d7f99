package app

import (
	"context"
	"fmt"
	"duty_rotation_bot/internal/domain/staff"
	idb "duty_rotation_bot/internal/infra/database" // Custom errors like ErrStaffNotFound live here
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrStaffAlreadyExists = fmt.Errorf("staff member with this Telegram ID already exists")
var ErrStaffAlreadyInactive = fmt.Errorf("staff member is already inactive")

type AdminService struct {
	staffRepo       staff.Repository
	adminTelegramID int64
}

func NewAdminService(sr staff.Repository, adminID int64) *AdminService {
	return &AdminService{
		staffRepo:       sr,
		adminTelegramID: adminID,
	}
}

// AddStaff handles the business logic for registering a new staff member.
// Rotation side effects (onboarding slots) are the caller's concern via
// RotationService.ProcessStaffActivated.
func (s *AdminService) AddStaff(ctx context.Context, performingAdminID int64, newStaffTelegramID int64, displayName string) (*staff.Staff, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	// Check if the member already exists by Telegram ID
	_, err := s.staffRepo.GetByTelegramID(ctx, newStaffTelegramID)
	if err == nil { // Found, so already exists
		return nil, ErrStaffAlreadyExists
	}
	if err != idb.ErrStaffNotFound { // Another error occurred during lookup
		return nil, fmt.Errorf("failed to check existing staff: %w", err)
	}

	newStaff := &staff.Staff{
		TelegramID:  newStaffTelegramID,
		DisplayName: displayName,
		IsActive:    true, // New staff members are active by default
	}

	err = s.staffRepo.Create(ctx, newStaff)
	if err != nil {
		if err == idb.ErrDuplicateTelegramID {
			return nil, ErrStaffAlreadyExists
		}
		return nil, fmt.Errorf("failed to create staff member in repository: %w", err)
	}

	return newStaff, nil
}

// RemoveStaff handles the business logic for deactivating a staff member.
// Rotation side effects (slot removal and reflow) are the caller's concern
// via RotationService.ProcessStaffDeactivated.
func (s *AdminService) RemoveStaff(ctx context.Context, performingAdminID int64, staffTelegramIDToRemove int64) (*staff.Staff, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.staffRepo.GetByTelegramID(ctx, staffTelegramIDToRemove)
	if err != nil {
		if err == idb.ErrStaffNotFound {
			return nil, idb.ErrStaffNotFound // Propagate specific error
		}
		return nil, fmt.Errorf("failed to get staff by Telegram ID for removal: %w", err)
	}

	if !target.IsActive {
		return target, ErrStaffAlreadyInactive
	}

	target.IsActive = false
	err = s.staffRepo.Update(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to update staff member to inactive in repository: %w", err)
	}

	return target, nil
}
