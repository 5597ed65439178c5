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
	"github.com/SscSPs/library_circulation_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for the circulation ledger.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.CirculationTransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements the facade
var _ portsrepo.CirculationTransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// copy_id and patron_id are nullable: BALANCE entries have no copy and
// RESHELVE entries may have no patron. Empty strings map to NULL on write and
// back on read.
const transactionColumns = `transaction_id, COALESCE(copy_id, ''), COALESCE(patron_id, ''), branch_id, type, status, checkout_date, due_date, return_date, fine_amount, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.CirculationTransaction, error) {
	var m models.CirculationTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.CopyID,
		&m.PatronID,
		&m.BranchID,
		&m.Type,
		&m.Status,
		&m.CheckoutDate,
		&m.DueDate,
		&m.ReturnDate,
		&m.FineAmount,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) findByID(ctx context.Context, q querier, transactionID string, forUpdate bool) (*domain.CirculationTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM circulation_transactions WHERE transaction_id = $1`, transactionColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanTransaction(q.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction with ID %s not found", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindTransactionByID retrieves a specific ledger entry by its unique identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CirculationTransaction, error) {
	return r.findByID(ctx, r.Pool, transactionID, false)
}

// FindTransactionByIDForUpdate retrieves a ledger entry and locks its row.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.CirculationTransaction, error) {
	return r.findByID(ctx, tx, transactionID, true)
}

// FindActiveLoanForCopyInTx retrieves the single ACTIVE checkout entry for a
// copy, if any, inside an open transaction.
func (r *PgxTransactionRepository) FindActiveLoanForCopyInTx(ctx context.Context, tx pgx.Tx, copyID string) (*domain.CirculationTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM circulation_transactions
		WHERE copy_id = $1 AND type = 'CHECKOUT' AND status = 'ACTIVE'
		FOR UPDATE`, transactionColumns)

	m, err := scanTransaction(tx.QueryRow(ctx, query, copyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no active loan for copy %s", copyID))
		}
		return nil, fmt.Errorf("failed to find active loan for copy %s: %w", copyID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// CountActiveLoansForPatronInTx counts a patron's open loans inside an open transaction.
func (r *PgxTransactionRepository) CountActiveLoansForPatronInTx(ctx context.Context, tx pgx.Tx, patronID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM circulation_transactions
		WHERE patron_id = $1 AND type = 'CHECKOUT' AND status = 'ACTIVE';
	`
	var count int
	if err := tx.QueryRow(ctx, query, patronID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active loans for patron %s: %w", patronID, err)
	}
	return count, nil
}

// FindOpenReservationEntryInTx retrieves the WAITING reservation ledger entry
// for a copy/patron pair, if any, inside an open transaction.
func (r *PgxTransactionRepository) FindOpenReservationEntryInTx(ctx context.Context, tx pgx.Tx, copyID string, patronID string) (*domain.CirculationTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM circulation_transactions
		WHERE copy_id = $1 AND patron_id = $2 AND type = 'RESERVATION' AND status = 'WAITING'
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`, transactionColumns)

	m, err := scanTransaction(tx.QueryRow(ctx, query, copyID, patronID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no open reservation entry for copy %s and patron %s", copyID, patronID))
		}
		return nil, fmt.Errorf("failed to find open reservation entry: %w", err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

func (r *PgxTransactionRepository) listPaginated(ctx context.Context, filterColumn, filterValue string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error) {
	args := []any{filterValue}
	query := fmt.Sprintf(`SELECT %s FROM circulation_transactions WHERE %s = $1`, transactionColumns, filterColumn)

	if nextToken != nil && *nextToken != "" {
		tokenTime, tokenID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, tokenTime, tokenID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT %d`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var ms []models.CirculationTransaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}

	var newToken *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newToken = &token
	}
	return mapping.ToDomainTransactionSlice(ms), newToken, nil
}

// ListTransactionsByPatron retrieves a token-paginated ledger history for a patron.
func (r *PgxTransactionRepository) ListTransactionsByPatron(ctx context.Context, patronID string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error) {
	return r.listPaginated(ctx, "patron_id", patronID, limit, nextToken)
}

// ListTransactionsByCopy retrieves a token-paginated ledger history for a copy.
func (r *PgxTransactionRepository) ListTransactionsByCopy(ctx context.Context, copyID string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error) {
	return r.listPaginated(ctx, "copy_id", copyID, limit, nextToken)
}

// InsertTransactionInTx persists a new ledger entry inside an open transaction.
func (r *PgxTransactionRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.CirculationTransaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO circulation_transactions (transaction_id, copy_id, patron_id, branch_id, type, status, checkout_date, due_date, return_date, fine_amount, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.CopyID,
		m.PatronID,
		m.BranchID,
		m.Type,
		m.Status,
		m.CheckoutDate,
		m.DueDate,
		m.ReturnDate,
		m.FineAmount,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransactionInTx writes the mutable fields of an existing ledger entry
// inside an open transaction.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.CirculationTransaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		UPDATE circulation_transactions
		SET status = $2, due_date = $3, return_date = $4, fine_amount = $5, notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.Status,
		m.DueDate,
		m.ReturnDate,
		m.FineAmount,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("transaction with ID %s not found", m.TransactionID))
	}
	return nil
}
