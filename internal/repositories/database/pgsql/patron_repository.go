package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	"github.com/SscSPs/library_circulation_app/internal/models"
	"github.com/SscSPs/library_circulation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPatronRepository struct {
	BaseRepository
}

// newPgxPatronRepository creates a new repository for patron data.
func newPgxPatronRepository(pool *pgxpool.Pool) portsrepo.PatronRepositoryFacade {
	return &PgxPatronRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPatronRepository implements portsrepo.PatronRepositoryFacade
var _ portsrepo.PatronRepositoryFacade = (*PgxPatronRepository)(nil)

const patronColumns = `patron_id, name, email, is_active, balance, card_expiration_date, home_branch_id, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanPatron(row pgx.Row) (models.Patron, error) {
	var m models.Patron
	err := row.Scan(
		&m.PatronID,
		&m.Name,
		&m.Email,
		&m.IsActive,
		&m.Balance,
		&m.CardExpirationDate,
		&m.HomeBranchID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxPatronRepository) findPatronByID(ctx context.Context, q querier, patronID string, forUpdate bool) (*domain.Patron, error) {
	query := fmt.Sprintf(`SELECT %s FROM patrons WHERE patron_id = $1 AND deleted_at IS NULL`, patronColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanPatron(q.QueryRow(ctx, query, patronID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("patron with ID %s not found", patronID))
		}
		return nil, fmt.Errorf("failed to find patron %s: %w", patronID, err)
	}
	d := mapping.ToDomainPatron(m)
	return &d, nil
}

// FindPatronByID retrieves a specific patron by their unique identifier.
func (r *PgxPatronRepository) FindPatronByID(ctx context.Context, patronID string) (*domain.Patron, error) {
	return r.findPatronByID(ctx, r.Pool, patronID, false)
}

// FindPatronByIDForUpdate retrieves a patron and locks their row.
func (r *PgxPatronRepository) FindPatronByIDForUpdate(ctx context.Context, tx pgx.Tx, patronID string) (*domain.Patron, error) {
	return r.findPatronByID(ctx, tx, patronID, true)
}

// ListPatrons retrieves a paginated list of non-deleted patrons.
func (r *PgxPatronRepository) ListPatrons(ctx context.Context, limit int, offset int) ([]domain.Patron, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM patrons
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, patron_id DESC
		LIMIT $1 OFFSET $2`, patronColumns)

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list patrons: %w", err)
	}
	defer rows.Close()

	var ms []models.Patron
	for rows.Next() {
		m, err := scanPatron(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patron row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading patron rows: %w", err)
	}
	return mapping.ToDomainPatronSlice(ms), nil
}

// SavePatron persists a new patron.
func (r *PgxPatronRepository) SavePatron(ctx context.Context, patron domain.Patron) error {
	m := mapping.ToModelPatron(patron)

	query := `
		INSERT INTO patrons (patron_id, name, email, is_active, balance, card_expiration_date, home_branch_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PatronID,
		m.Name,
		m.Email,
		m.IsActive,
		m.Balance,
		m.CardExpirationDate,
		m.HomeBranchID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: patron with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save patron %s: %w", m.PatronID, err)
	}
	return nil
}

// UpdatePatron updates an existing patron's details. The balance is not
// written here; it only moves through UpdatePatronBalanceInTx.
func (r *PgxPatronRepository) UpdatePatron(ctx context.Context, patron domain.Patron) error {
	m := mapping.ToModelPatron(patron)

	query := `
		UPDATE patrons
		SET name = $2, email = $3, is_active = $4, card_expiration_date = $5, last_updated_at = $6, last_updated_by = $7
		WHERE patron_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.PatronID,
		m.Name,
		m.Email,
		m.IsActive,
		m.CardExpirationDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: patron with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to update patron %s: %w", m.PatronID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("patron with ID %s not found", m.PatronID))
	}
	return nil
}

// UpdatePatronBalanceInTx writes a patron's fine balance inside an open transaction.
func (r *PgxPatronRepository) UpdatePatronBalanceInTx(ctx context.Context, tx pgx.Tx, patronID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE patrons
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE patron_id = $1 AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, query, patronID, balance, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update balance for patron %s: %w", patronID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("patron with ID %s not found", patronID))
	}
	return nil
}

// SoftDeletePatron marks a patron as deleted without removing their row.
func (r *PgxPatronRepository) SoftDeletePatron(ctx context.Context, patronID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE patrons
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE patron_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, patronID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete patron %s: %w", patronID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("patron with ID %s not found", patronID))
	}
	return nil
}
