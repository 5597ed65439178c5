package dto

import (
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// CreateReservationRequest is the payload for joining a copy's waitlist.
type CreateReservationRequest struct {
	CopyID   string `json:"copyID" binding:"required"`
	PatronID string `json:"patronID" binding:"required"`
}

// ReservationResponse defines the data returned for a reservation.
type ReservationResponse struct {
	ReservationID   string     `json:"reservationID"`
	CopyID          string     `json:"copyID"`
	PatronID        string     `json:"patronID"`
	ReservationDate time.Time  `json:"reservationDate"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	Status          string     `json:"status"`
	QueuePosition   int        `json:"queuePosition"`
	FulfillmentDate *time.Time `json:"fulfillmentDate,omitempty"`
}

// CancelReservationResponse reports a cancellation and its queue effects.
type CancelReservationResponse struct {
	ReservationID    string  `json:"reservationID"`
	CopyStatus       string  `json:"copyStatus"`
	PromotedPatronID *string `json:"promotedPatronID,omitempty"`
}

// QueueResponse is the ordered active waitlist for one copy.
type QueueResponse struct {
	CopyID       string                `json:"copyID"`
	QueueLength  int                   `json:"queueLength"`
	Reservations []ReservationResponse `json:"reservations"`
}

// ToReservationResponse converts a domain Reservation to its response DTO.
func ToReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID:   r.ReservationID,
		CopyID:          r.CopyID,
		PatronID:        r.PatronID,
		ReservationDate: r.ReservationDate,
		ExpiryDate:      r.ExpiryDate,
		Status:          string(r.Status),
		QueuePosition:   r.QueuePosition,
		FulfillmentDate: r.FulfillmentDate,
	}
}

// ToReservationResponses converts a slice of domain Reservations to response DTOs.
func ToReservationResponses(rs []domain.Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(rs))
	for i, r := range rs {
		responses[i] = ToReservationResponse(&r)
	}
	return responses
}
