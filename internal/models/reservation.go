package models

import "time"

// Reservation is the database row shape for one patron's claim on a copy.
type Reservation struct {
	ReservationID   string     `db:"reservation_id"`
	CopyID          string     `db:"copy_id"`
	PatronID        string     `db:"patron_id"`
	ReservationDate time.Time  `db:"reservation_date"`
	ExpiryDate      *time.Time `db:"expiry_date"`
	Status          string     `db:"status"`
	QueuePosition   int        `db:"queue_position"`
	FulfillmentDate *time.Time `db:"fulfillment_date"`
	AuditFields
}
