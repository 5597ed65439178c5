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

type PgxReservationRepository struct {
	BaseRepository
}

// newPgxReservationRepository creates a new repository for reservation data.
func newPgxReservationRepository(pool *pgxpool.Pool) portsrepo.ReservationRepositoryWithTx {
	return &PgxReservationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReservationRepository implements portsrepo.ReservationRepositoryWithTx
var _ portsrepo.ReservationRepositoryWithTx = (*PgxReservationRepository)(nil)

const reservationColumns = `reservation_id, copy_id, patron_id, reservation_date, expiry_date, status, queue_position, fulfillment_date, created_at, created_by, last_updated_at, last_updated_by`

func scanReservation(row pgx.Row) (models.Reservation, error) {
	var m models.Reservation
	err := row.Scan(
		&m.ReservationID,
		&m.CopyID,
		&m.PatronID,
		&m.ReservationDate,
		&m.ExpiryDate,
		&m.Status,
		&m.QueuePosition,
		&m.FulfillmentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxReservationRepository) findReservationByID(ctx context.Context, q querier, reservationID string, forUpdate bool) (*domain.Reservation, error) {
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE reservation_id = $1`, reservationColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	m, err := scanReservation(q.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with ID %s not found", reservationID))
		}
		return nil, fmt.Errorf("failed to find reservation %s: %w", reservationID, err)
	}
	d := mapping.ToDomainReservation(m)
	return &d, nil
}

// FindReservationByID retrieves a specific reservation by its unique identifier.
func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	return r.findReservationByID(ctx, r.Pool, reservationID, false)
}

// FindReservationByIDForUpdate retrieves a reservation and locks its row.
func (r *PgxReservationRepository) FindReservationByIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID string) (*domain.Reservation, error) {
	return r.findReservationByID(ctx, tx, reservationID, true)
}

func (r *PgxReservationRepository) findActiveForCopy(ctx context.Context, q querier, copyID string, forUpdate bool) ([]domain.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reservations
		WHERE copy_id = $1 AND status IN ('WAITING', 'READY')
		ORDER BY queue_position ASC`, reservationColumns)
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, copyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reservations for copy %s: %w", copyID, err)
	}
	defer rows.Close()

	var ms []models.Reservation
	for rows.Next() {
		m, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading reservation rows: %w", err)
	}
	return mapping.ToDomainReservationSlice(ms), nil
}

// FindActiveReservationsForCopy retrieves the WAITING/READY reservations for a
// copy ordered by queue position.
func (r *PgxReservationRepository) FindActiveReservationsForCopy(ctx context.Context, copyID string) ([]domain.Reservation, error) {
	return r.findActiveForCopy(ctx, r.Pool, copyID, false)
}

// FindActiveReservationsForCopyForUpdate is the locking variant used while
// renumbering queue positions.
func (r *PgxReservationRepository) FindActiveReservationsForCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID string) ([]domain.Reservation, error) {
	return r.findActiveForCopy(ctx, tx, copyID, true)
}

// ListReservationsByPatron retrieves all reservations held by a patron, newest first.
func (r *PgxReservationRepository) ListReservationsByPatron(ctx context.Context, patronID string) ([]domain.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reservations
		WHERE patron_id = $1
		ORDER BY reservation_date DESC, reservation_id DESC`, reservationColumns)

	rows, err := r.Pool.Query(ctx, query, patronID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for patron %s: %w", patronID, err)
	}
	defer rows.Close()

	var ms []models.Reservation
	for rows.Next() {
		m, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading reservation rows: %w", err)
	}
	return mapping.ToDomainReservationSlice(ms), nil
}

// InsertReservationInTx persists a new reservation inside an open transaction.
func (r *PgxReservationRepository) InsertReservationInTx(ctx context.Context, tx pgx.Tx, reservation domain.Reservation) error {
	m := mapping.ToModelReservation(reservation)

	query := `
		INSERT INTO reservations (reservation_id, copy_id, patron_id, reservation_date, expiry_date, status, queue_position, fulfillment_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.ReservationID,
		m.CopyID,
		m.PatronID,
		m.ReservationDate,
		m.ExpiryDate,
		m.Status,
		m.QueuePosition,
		m.FulfillmentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reservation with ID %s already exists", apperrors.ErrDuplicate, m.ReservationID)
		}
		return fmt.Errorf("failed to save reservation %s: %w", m.ReservationID, err)
	}
	return nil
}

// UpdateReservationInTx writes a reservation's status, position and dates
// inside an open transaction.
func (r *PgxReservationRepository) UpdateReservationInTx(ctx context.Context, tx pgx.Tx, reservation domain.Reservation) error {
	m := mapping.ToModelReservation(reservation)

	query := `
		UPDATE reservations
		SET status = $2, queue_position = $3, expiry_date = $4, fulfillment_date = $5, last_updated_at = $6, last_updated_by = $7
		WHERE reservation_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.ReservationID,
		m.Status,
		m.QueuePosition,
		m.ExpiryDate,
		m.FulfillmentDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", m.ReservationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with ID %s not found", m.ReservationID))
	}
	return nil
}
