package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CirculationTransaction is the database row shape for a ledger entry.
type CirculationTransaction struct {
	TransactionID string          `db:"transaction_id"`
	CopyID        string          `db:"copy_id"`
	PatronID      string          `db:"patron_id"`
	BranchID      string          `db:"branch_id"`
	Type          string          `db:"type"`
	Status        string          `db:"status"`
	CheckoutDate  *time.Time      `db:"checkout_date"`
	DueDate       *time.Time      `db:"due_date"`
	ReturnDate    *time.Time      `db:"return_date"`
	FineAmount    decimal.Decimal `db:"fine_amount"`
	Notes         string          `db:"notes"`
	AuditFields
}
