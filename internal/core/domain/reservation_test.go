package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationStatusClassification(t *testing.T) {
	assert.True(t, ReservationWaiting.IsActive())
	assert.True(t, ReservationReady.IsActive())
	assert.False(t, ReservationFulfilled.IsActive())
	assert.False(t, ReservationCancelled.IsActive())
	assert.False(t, ReservationExpired.IsActive())

	assert.True(t, ReservationFulfilled.IsTerminal())
	assert.True(t, ReservationCancelled.IsTerminal())
	assert.True(t, ReservationExpired.IsTerminal())
	assert.False(t, ReservationWaiting.IsTerminal())
	assert.False(t, ReservationReady.IsTerminal())
}

func TestPatronCardExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, Patron{CardExpirationDate: now.AddDate(-1, 0, 0)}.CardExpired(now))
	assert.False(t, Patron{CardExpirationDate: now.AddDate(1, 0, 0)}.CardExpired(now))
	// Expiring today still counts as valid.
	assert.False(t, Patron{CardExpirationDate: now.Truncate(24 * time.Hour)}.CardExpired(now))
}

func TestTransactionIsOverdue(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, CirculationTransaction{DueDate: &past}.IsOverdue(now))
	assert.False(t, CirculationTransaction{DueDate: &future}.IsOverdue(now))
	assert.False(t, CirculationTransaction{}.IsOverdue(now))
}
