package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a circulation ledger entry.
type TransactionType string

const (
	TxnCheckout    TransactionType = "CHECKOUT"
	TxnCheckin     TransactionType = "CHECKIN"
	TxnReservation TransactionType = "RESERVATION"
	TxnRenewal     TransactionType = "RENEWAL"
	TxnBalance     TransactionType = "BALANCE"
	TxnLost        TransactionType = "LOST"
	TxnDamaged     TransactionType = "DAMAGED"
	TxnReshelve    TransactionType = "RESHELVE"
)

// TransactionStatus indicates whether a ledger entry still has an open obligation.
type TransactionStatus string

const (
	TxnActive    TransactionStatus = "ACTIVE"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnWaiting   TransactionStatus = "WAITING"
)

// CirculationTransaction is an append-only audit record of a circulation event.
// A checkout produces exactly one ACTIVE entry per outstanding loan; checkin
// and renewal mutate that same entry rather than creating a duplicate loan row.
type CirculationTransaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	CopyID        string            `json:"copyID"`
	PatronID      string            `json:"patronID"`
	BranchID      string            `json:"branchID"` // Branch where the event took place
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	CheckoutDate  *time.Time        `json:"checkoutDate,omitempty"`
	DueDate       *time.Time        `json:"dueDate,omitempty"`
	ReturnDate    *time.Time        `json:"returnDate,omitempty"`
	FineAmount    decimal.Decimal   `json:"fineAmount"`
	Notes         string            `json:"notes"`
	AuditFields
}

// IsOverdue reports whether the loan's due date has passed at the given instant.
func (t CirculationTransaction) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}
