package repositories

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ReservationReader defines read operations for reservation data
type ReservationReader interface {
	// FindReservationByID retrieves a specific reservation by its unique identifier.
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// FindReservationByIDForUpdate retrieves a reservation and locks its row.
	// Must be called within a transaction.
	FindReservationByIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID string) (*domain.Reservation, error)

	// FindActiveReservationsForCopy retrieves the WAITING/READY reservations for
	// a copy ordered by queue position.
	FindActiveReservationsForCopy(ctx context.Context, copyID string) ([]domain.Reservation, error)

	// FindActiveReservationsForCopyForUpdate is the locking variant used while
	// renumbering positions; the dense-position invariant is only safe to
	// recompute from rows read under the lock.
	FindActiveReservationsForCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID string) ([]domain.Reservation, error)

	// ListReservationsByPatron retrieves all reservations held by a patron,
	// newest first.
	ListReservationsByPatron(ctx context.Context, patronID string) ([]domain.Reservation, error)
}

// ReservationWriter defines write operations for reservation data
type ReservationWriter interface {
	// InsertReservationInTx persists a new reservation inside an open transaction.
	InsertReservationInTx(ctx context.Context, tx pgx.Tx, reservation domain.Reservation) error

	// UpdateReservationInTx writes a reservation's status, position and dates
	// inside an open transaction.
	UpdateReservationInTx(ctx context.Context, tx pgx.Tx, reservation domain.Reservation) error
}

// ReservationRepositoryFacade combines all reservation-related repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
}

// ReservationRepositoryWithTx extends ReservationRepositoryFacade with transaction capabilities
type ReservationRepositoryWithTx interface {
	ReservationRepositoryFacade
	TransactionManager
}
