package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patron represents a borrower account.
//
// Invariant: Balance >= 0 under normal operation; fines only increase it and
// payment externally zeroes it.
type Patron struct {
	PatronID           string          `json:"patronID"` // Primary Key (UUID)
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	IsActive           bool            `json:"isActive"`
	Balance            decimal.Decimal `json:"balance"` // Outstanding fines
	CardExpirationDate time.Time       `json:"cardExpirationDate"`
	HomeBranchID       string          `json:"homeBranchID"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// CardExpired reports whether the patron's card has lapsed at the given instant.
func (p Patron) CardExpired(now time.Time) bool {
	return p.CardExpirationDate.Before(now.Truncate(24 * time.Hour))
}

// HasOutstandingBalance reports whether the patron owes fines.
func (p Patron) HasOutstandingBalance() bool {
	return p.Balance.GreaterThan(decimal.Zero)
}
