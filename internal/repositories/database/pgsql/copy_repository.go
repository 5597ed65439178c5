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
)

type PgxCopyRepository struct {
	BaseRepository
}

// newPgxCopyRepository creates a new repository for item copy data.
func newPgxCopyRepository(pool *pgxpool.Pool) portsrepo.CopyRepositoryWithTx {
	return &PgxCopyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCopyRepository implements portsrepo.CopyRepositoryWithTx
var _ portsrepo.CopyRepositoryWithTx = (*PgxCopyRepository)(nil)

const copyColumns = `copy_id, title_id, barcode, item_type, owning_branch_id, current_branch_id, condition, status, checked_out_by, due_date, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanCopy(row pgx.Row) (models.ItemCopy, error) {
	var m models.ItemCopy
	err := row.Scan(
		&m.CopyID,
		&m.TitleID,
		&m.Barcode,
		&m.ItemType,
		&m.OwningBranchID,
		&m.CurrentBranchID,
		&m.Condition,
		&m.Status,
		&m.CheckedOutBy,
		&m.DueDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxCopyRepository) findCopyByID(ctx context.Context, q querier, copyID string, forUpdate bool) (*domain.ItemCopy, error) {
	query := fmt.Sprintf(`SELECT %s FROM copies WHERE copy_id = $1 AND deleted_at IS NULL`, copyColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanCopy(q.QueryRow(ctx, query, copyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("copy with ID %s not found", copyID))
		}
		return nil, fmt.Errorf("failed to find copy %s: %w", copyID, err)
	}
	d := mapping.ToDomainCopy(m)
	return &d, nil
}

// FindCopyByID retrieves a specific copy by its unique identifier.
func (r *PgxCopyRepository) FindCopyByID(ctx context.Context, copyID string) (*domain.ItemCopy, error) {
	return r.findCopyByID(ctx, r.Pool, copyID, false)
}

// FindCopyByIDForUpdate retrieves a copy and locks its row for the duration of
// the transaction. This lock is what serializes concurrent circulation
// operations on the same copy.
func (r *PgxCopyRepository) FindCopyByIDForUpdate(ctx context.Context, tx pgx.Tx, copyID string) (*domain.ItemCopy, error) {
	return r.findCopyByID(ctx, tx, copyID, true)
}

// ListCopiesByTitle retrieves all non-removed copies of a catalogued title.
func (r *PgxCopyRepository) ListCopiesByTitle(ctx context.Context, titleID string) ([]domain.ItemCopy, error) {
	query := fmt.Sprintf(`SELECT %s FROM copies WHERE title_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC`, copyColumns)

	rows, err := r.Pool.Query(ctx, query, titleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list copies for title %s: %w", titleID, err)
	}
	defer rows.Close()

	var copies []domain.ItemCopy
	for rows.Next() {
		m, err := scanCopy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan copy row: %w", err)
		}
		copies = append(copies, mapping.ToDomainCopy(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading copy rows: %w", err)
	}
	return copies, nil
}

// SaveCopy inserts a newly registered copy.
func (r *PgxCopyRepository) SaveCopy(ctx context.Context, copy domain.ItemCopy) error {
	m := mapping.ToModelCopy(copy)

	query := `
		INSERT INTO copies (copy_id, title_id, barcode, item_type, owning_branch_id, current_branch_id, condition, status, checked_out_by, due_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CopyID,
		m.TitleID,
		m.Barcode,
		m.ItemType,
		m.OwningBranchID,
		m.CurrentBranchID,
		m.Condition,
		m.Status,
		m.CheckedOutBy,
		m.DueDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: copy with barcode %s already exists", apperrors.ErrDuplicate, m.Barcode)
		}
		return fmt.Errorf("failed to save copy %s: %w", m.CopyID, err)
	}
	return nil
}

// UpdateCopyInTx writes the copy's mutable fields inside an open transaction.
func (r *PgxCopyRepository) UpdateCopyInTx(ctx context.Context, tx pgx.Tx, copy domain.ItemCopy) error {
	m := mapping.ToModelCopy(copy)

	query := `
		UPDATE copies
		SET current_branch_id = $2, condition = $3, status = $4, checked_out_by = $5, due_date = $6, last_updated_at = $7, last_updated_by = $8
		WHERE copy_id = $1 AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, query,
		m.CopyID,
		m.CurrentBranchID,
		m.Condition,
		m.Status,
		m.CheckedOutBy,
		m.DueDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update copy %s: %w", m.CopyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("copy with ID %s not found", m.CopyID))
	}
	return nil
}

// SoftRemoveCopy marks a copy as removed without deleting its row, so ledger
// history keeps a valid reference.
func (r *PgxCopyRepository) SoftRemoveCopy(ctx context.Context, copyID string, removedBy string, removedAt time.Time) error {
	query := `
		UPDATE copies
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE copy_id = $1 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, copyID, removedAt, removedBy)
	if err != nil {
		return fmt.Errorf("failed to remove copy %s: %w", copyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("copy with ID %s not found", copyID))
	}
	return nil
}
