package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	"github.com/SscSPs/library_circulation_app/internal/models"
	"github.com/SscSPs/library_circulation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStaffRepository struct {
	pool *pgxpool.Pool
}

// newPgxStaffRepository creates a new repository for staff account data.
func newPgxStaffRepository(pool *pgxpool.Pool) portsrepo.StaffRepositoryFacade {
	return &PgxStaffRepository{pool: pool}
}

// Ensure PgxStaffRepository implements portsrepo.StaffRepositoryFacade
var _ portsrepo.StaffRepositoryFacade = (*PgxStaffRepository)(nil)

const staffColumns = `staff_id, username, name, password_hash, branch_id, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanStaff(row pgx.Row) (models.StaffUser, error) {
	var m models.StaffUser
	err := row.Scan(
		&m.StaffID,
		&m.Username,
		&m.Name,
		&m.PasswordHash,
		&m.BranchID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

// FindStaffByUsername retrieves a staff account by login name.
func (r *PgxStaffRepository) FindStaffByUsername(ctx context.Context, username string) (*domain.StaffUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_users WHERE username = $1 AND deleted_at IS NULL`, staffColumns)

	m, err := scanStaff(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("staff user %s not found", username))
		}
		return nil, fmt.Errorf("failed to find staff user %s: %w", username, err)
	}
	d := mapping.ToDomainStaffUser(m)
	return &d, nil
}

// FindStaffByID retrieves a staff account by its unique identifier.
func (r *PgxStaffRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.StaffUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_users WHERE staff_id = $1 AND deleted_at IS NULL`, staffColumns)

	m, err := scanStaff(r.pool.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("staff user with ID %s not found", staffID))
		}
		return nil, fmt.Errorf("failed to find staff user %s: %w", staffID, err)
	}
	d := mapping.ToDomainStaffUser(m)
	return &d, nil
}

// SaveStaff persists a new staff account.
func (r *PgxStaffRepository) SaveStaff(ctx context.Context, staff domain.StaffUser) error {
	query := `
		INSERT INTO staff_users (staff_id, username, name, password_hash, branch_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		staff.StaffID,
		staff.Username,
		staff.Name,
		staff.PasswordHash,
		staff.BranchID,
		staff.CreatedAt,
		staff.CreatedBy,
		staff.LastUpdatedAt,
		staff.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: staff user %s already exists", apperrors.ErrDuplicate, staff.Username)
		}
		return fmt.Errorf("failed to save staff user %s: %w", staff.StaffID, err)
	}
	return nil
}
