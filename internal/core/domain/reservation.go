package domain

import "time"

// ReservationStatus indicates the state of one patron's claim on a copy.
type ReservationStatus string

const (
	ReservationWaiting   ReservationStatus = "WAITING"
	ReservationReady     ReservationStatus = "READY"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

// IsActive reports whether the reservation still occupies a queue position.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationWaiting || s == ReservationReady
}

// IsTerminal reports whether the reservation has permanently left the queue.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationFulfilled || s == ReservationCancelled || s == ReservationExpired
}

// Reservation represents one patron's claim on a copy.
//
// Invariant: among reservations for the same copy with an active status, the
// QueuePosition values form a contiguous 1-based sequence with no gaps or
// duplicates, and at most one reservation is READY, always at position 1.
type Reservation struct {
	ReservationID   string            `json:"reservationID"` // Primary Key (UUID)
	CopyID          string            `json:"copyID"`
	PatronID        string            `json:"patronID"`
	ReservationDate time.Time         `json:"reservationDate"`
	ExpiryDate      *time.Time        `json:"expiryDate,omitempty"` // Pickup deadline, set when the reservation turns READY
	Status          ReservationStatus `json:"status"`
	QueuePosition   int               `json:"queuePosition"` // 1-based dense rank among active reservations
	FulfillmentDate *time.Time        `json:"fulfillmentDate,omitempty"`
	AuditFields
}
