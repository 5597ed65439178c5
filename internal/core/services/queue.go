package services

import (
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// Pure queue-position arithmetic shared by the reservation and circulation
// services. Callers are responsible for reading the active reservations under
// a row lock and for writing back the entries these helpers modify.

// queueHead returns a pointer into active for the entry at position 1, or nil.
func queueHead(active []domain.Reservation) *domain.Reservation {
	for i := range active {
		if active[i].QueuePosition == 1 {
			return &active[i]
		}
	}
	return nil
}

// closeQueueGap decrements the position of every active entry sitting behind
// the vacated position, restoring the dense 1..N sequence. It returns the
// entries that changed and need to be written back.
func closeQueueGap(active []domain.Reservation, vacatedPosition int) []domain.Reservation {
	changed := make([]domain.Reservation, 0, len(active))
	for i := range active {
		if active[i].QueuePosition > vacatedPosition {
			active[i].QueuePosition--
			changed = append(changed, active[i])
		}
	}
	return changed
}

// promoteHead flips the position-1 WAITING entry to READY and stamps its
// pickup deadline. It returns the promoted entry (which the caller must write
// back), or nil when the queue has no promotable head.
func promoteHead(active []domain.Reservation, now time.Time, holdDays int, staffID string) *domain.Reservation {
	head := queueHead(active)
	if head == nil || head.Status != domain.ReservationWaiting {
		return nil
	}
	expiry := now.AddDate(0, 0, holdDays)
	head.Status = domain.ReservationReady
	head.ExpiryDate = &expiry
	head.LastUpdatedAt = now
	head.LastUpdatedBy = staffID
	return head
}
