package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

func eligiblePatron(now time.Time) domain.Patron {
	return domain.Patron{
		PatronID:           "patron-1",
		IsActive:           true,
		Balance:            decimal.Zero,
		CardExpirationDate: now.AddDate(1, 0, 0),
	}
}

func TestCanCheckout(t *testing.T) {
	now := time.Now().UTC()
	e := NewEligibility(3)

	testCases := []struct {
		name            string
		mutate          func(p *domain.Patron)
		activeCheckouts int
		expectedErr     error
	}{
		{name: "eligible", activeCheckouts: 0},
		{name: "at limit minus one", activeCheckouts: 2},
		{
			name:        "inactive account",
			mutate:      func(p *domain.Patron) { p.IsActive = false },
			expectedErr: ErrPatronInactive,
		},
		{
			name:        "expired card",
			mutate:      func(p *domain.Patron) { p.CardExpirationDate = now.AddDate(0, -1, 0) },
			expectedErr: ErrCardExpired,
		},
		{
			name:        "outstanding balance",
			mutate:      func(p *domain.Patron) { p.Balance = decimal.NewFromFloat(4.50) },
			expectedErr: ErrOutstandingBalance,
		},
		{
			name:            "checkout limit reached",
			activeCheckouts: 3,
			expectedErr:     ErrCheckoutLimitReached,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			patron := eligiblePatron(now)
			if tc.mutate != nil {
				tc.mutate(&patron)
			}

			err := e.CanCheckout(patron, tc.activeCheckouts, now)
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.ErrorIs(t, err, ErrIneligiblePatron)
		})
	}
}

func TestCanCheckoutRuleOrder(t *testing.T) {
	// An inactive account with every other problem still reports inactivity
	// first; rules are checked in a fixed priority order.
	now := time.Now().UTC()
	patron := domain.Patron{
		IsActive:           false,
		Balance:            decimal.NewFromInt(10),
		CardExpirationDate: now.AddDate(-1, 0, 0),
	}

	err := NewEligibility(1).CanCheckout(patron, 5, now)
	assert.ErrorIs(t, err, ErrPatronInactive)
}

func TestCanRenew(t *testing.T) {
	now := time.Now().UTC()
	e := NewEligibility(3)
	loanedCopy := domain.ItemCopy{Status: domain.CopyCheckedOut}

	t.Run("eligible", func(t *testing.T) {
		err := e.CanRenew(eligiblePatron(now), loanedCopy, false, 1, now)
		assert.NoError(t, err)
	})

	t.Run("just below the checkout limit", func(t *testing.T) {
		err := e.CanRenew(eligiblePatron(now), loanedCopy, false, 2, now)
		assert.NoError(t, err)
	})

	t.Run("at the checkout limit", func(t *testing.T) {
		err := e.CanRenew(eligiblePatron(now), loanedCopy, false, 3, now)
		assert.ErrorIs(t, err, ErrCheckoutLimitReached)
	})

	t.Run("another patron waiting", func(t *testing.T) {
		err := e.CanRenew(eligiblePatron(now), loanedCopy, true, 1, now)
		assert.ErrorIs(t, err, ErrReservedByOthers)
	})

	t.Run("renewal cap", func(t *testing.T) {
		twice := domain.ItemCopy{Status: domain.CopyRenewedTwice}
		err := e.CanRenew(eligiblePatron(now), twice, false, 1, now)
		assert.ErrorIs(t, err, domain.ErrRenewalLimitReached)
	})

	t.Run("outstanding balance blocks renewal", func(t *testing.T) {
		patron := eligiblePatron(now)
		patron.Balance = decimal.NewFromFloat(0.25)
		err := e.CanRenew(patron, loanedCopy, false, 1, now)
		assert.ErrorIs(t, err, ErrOutstandingBalance)
	})
}

func TestCanReserve(t *testing.T) {
	now := time.Now().UTC()
	e := NewEligibility(3)

	t.Run("eligible even with fines and expired card", func(t *testing.T) {
		patron := eligiblePatron(now)
		patron.Balance = decimal.NewFromInt(50)
		patron.CardExpirationDate = now.AddDate(-1, 0, 0)
		assert.NoError(t, e.CanReserve(patron, nil))
	})

	t.Run("inactive account", func(t *testing.T) {
		patron := eligiblePatron(now)
		patron.IsActive = false
		assert.ErrorIs(t, e.CanReserve(patron, nil), ErrPatronInactive)
	})

	t.Run("duplicate active reservation", func(t *testing.T) {
		patron := eligiblePatron(now)
		queue := []domain.Reservation{
			{PatronID: "someone-else", Status: domain.ReservationReady, QueuePosition: 1},
			{PatronID: patron.PatronID, Status: domain.ReservationWaiting, QueuePosition: 2},
		}
		assert.ErrorIs(t, e.CanReserve(patron, queue), ErrDuplicateReservation)
	})

	t.Run("closed reservation does not count as duplicate", func(t *testing.T) {
		patron := eligiblePatron(now)
		queue := []domain.Reservation{
			{PatronID: patron.PatronID, Status: domain.ReservationCancelled},
		}
		assert.NoError(t, e.CanReserve(patron, queue))
	})
}
