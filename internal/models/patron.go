package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patron is the database row shape for a borrower account.
type Patron struct {
	PatronID           string          `db:"patron_id"`
	Name               string          `db:"name"`
	Email              string          `db:"email"`
	IsActive           bool            `db:"is_active"`
	Balance            decimal.Decimal `db:"balance"`
	CardExpirationDate time.Time       `db:"card_expiration_date"`
	HomeBranchID       string          `db:"home_branch_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
