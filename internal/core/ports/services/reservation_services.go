package services

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/dto"
)

// ReservationSvcFacade manages the per-copy FIFO waitlist. Queue positions are
// dense and 1-based among active reservations; at most one reservation per
// copy is READY and it always sits at position 1.
type ReservationSvcFacade interface {
	// Reserve enqueues a patron on a copy's waitlist. On an available copy with
	// an empty queue the reservation is created READY and the copy turns RESERVED.
	Reserve(ctx context.Context, req dto.CreateReservationRequest, staffID string) (*domain.Reservation, error)

	// Cancel withdraws a reservation, closes the position gap and promotes the
	// new head of the queue if the cancelled reservation was READY.
	Cancel(ctx context.Context, reservationID string, staffID string) (*dto.CancelReservationResponse, error)

	// GetQueue retrieves the ordered active waitlist for a copy.
	GetQueue(ctx context.Context, copyID string) ([]domain.Reservation, error)

	// ListPatronReservations retrieves all reservations held by a patron.
	ListPatronReservations(ctx context.Context, patronID string) ([]domain.Reservation, error)
}
