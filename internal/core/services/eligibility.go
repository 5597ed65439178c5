package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// ErrIneligiblePatron is the parent of every policy rejection; each concrete
// reason wraps it so handlers can branch on either level.
var ErrIneligiblePatron = errors.New("patron is not eligible")

var (
	ErrPatronInactive       = fmt.Errorf("%w: account is inactive", ErrIneligiblePatron)
	ErrCardExpired          = fmt.Errorf("%w: library card has expired", ErrIneligiblePatron)
	ErrOutstandingBalance   = fmt.Errorf("%w: outstanding balance on account", ErrIneligiblePatron)
	ErrCheckoutLimitReached = fmt.Errorf("%w: active checkout limit reached", ErrIneligiblePatron)
)

// ErrReservedByOthers rejects a renewal while another patron is waiting.
var ErrReservedByOthers = errors.New("copy has an active reservation by another patron")

// ErrDuplicateReservation rejects a second active reservation by the same
// patron on the same copy.
var ErrDuplicateReservation = errors.New("patron already holds an active reservation on this copy")

// Eligibility evaluates whether a patron may check out, renew or reserve.
// All methods are pure; rules are checked in priority order and the first
// failing reason is reported.
type Eligibility struct {
	CheckoutLimit int
}

// NewEligibility creates an Eligibility evaluator with the given checkout cap.
func NewEligibility(checkoutLimit int) Eligibility {
	return Eligibility{CheckoutLimit: checkoutLimit}
}

// CanCheckout reports whether the patron may take out one more loan.
func (e Eligibility) CanCheckout(patron domain.Patron, activeCheckouts int, now time.Time) error {
	if !patron.IsActive {
		return ErrPatronInactive
	}
	if patron.CardExpired(now) {
		return ErrCardExpired
	}
	if patron.HasOutstandingBalance() {
		return ErrOutstandingBalance
	}
	if activeCheckouts >= e.CheckoutLimit {
		return ErrCheckoutLimitReached
	}
	return nil
}

// CanRenew reports whether the patron may extend the loan on the given copy.
// othersWaiting must be true when any other patron holds an active reservation
// on the copy.
func (e Eligibility) CanRenew(patron domain.Patron, copy domain.ItemCopy, othersWaiting bool, activeCheckouts int, now time.Time) error {
	if !patron.IsActive {
		return ErrPatronInactive
	}
	if patron.CardExpired(now) {
		return ErrCardExpired
	}
	if patron.HasOutstandingBalance() {
		return ErrOutstandingBalance
	}
	if activeCheckouts >= e.CheckoutLimit {
		return ErrCheckoutLimitReached
	}
	if othersWaiting {
		return ErrReservedByOthers
	}
	if copy.Status == domain.CopyRenewedTwice {
		return domain.ErrRenewalLimitReached
	}
	return nil
}

// CanReserve reports whether the patron may join the copy's waitlist.
// Card expiry and outstanding balance deliberately do not block reservations;
// only checkout and renewal enforce them.
func (e Eligibility) CanReserve(patron domain.Patron, activeReservations []domain.Reservation) error {
	if !patron.IsActive {
		return ErrPatronInactive
	}
	for _, r := range activeReservations {
		if r.PatronID == patron.PatronID && r.Status.IsActive() {
			return ErrDuplicateReservation
		}
	}
	return nil
}
