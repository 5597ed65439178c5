package repositories

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// StaffRepositoryFacade defines persistence operations for staff accounts.
type StaffRepositoryFacade interface {
	// FindStaffByUsername retrieves a staff account by login name.
	FindStaffByUsername(ctx context.Context, username string) (*domain.StaffUser, error)

	// FindStaffByID retrieves a staff account by its unique identifier.
	FindStaffByID(ctx context.Context, staffID string) (*domain.StaffUser, error)

	// SaveStaff persists a new staff account.
	SaveStaff(ctx context.Context, staff domain.StaffUser) error
}
