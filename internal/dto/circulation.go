package dto

import (
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the payload for lending a copy to a patron.
type CheckoutRequest struct {
	PatronID string `json:"patronID" binding:"required"`
	CopyID   string `json:"copyID" binding:"required"`
	// ClearFines authorizes zeroing the patron's balance as part of the same
	// checkout when an outstanding balance is the only blocker.
	ClearFines bool `json:"clearFines"`
}

// CheckoutResponse reports the created loan.
type CheckoutResponse struct {
	TransactionID string    `json:"transactionID"`
	CopyID        string    `json:"copyID"`
	PatronID      string    `json:"patronID"`
	DueDate       time.Time `json:"dueDate"`
}

// CheckinRequest is the payload for returning a copy.
type CheckinRequest struct {
	CopyID    string `json:"copyID" binding:"required"`
	Condition string `json:"condition" binding:"required,copycondition"`
	BranchID  string `json:"branchID" binding:"required"`
	Notes     string `json:"notes"`
}

// CheckinResponse reports the closed loan, any fine charged, and the patron
// promoted to the head of the reservation queue (for the notification layer;
// no notification logic lives here).
type CheckinResponse struct {
	TransactionID    string          `json:"transactionID"`
	CopyStatus       string          `json:"copyStatus"`
	FineAmount       decimal.Decimal `json:"fineAmount"`
	OverdueDays      int             `json:"overdueDays"`
	PromotedPatronID *string         `json:"promotedPatronID,omitempty"`
}

// RenewResponse reports the extended loan.
type RenewResponse struct {
	TransactionID string    `json:"transactionID"`
	NewDueDate    time.Time `json:"newDueDate"`
	RenewalCount  int       `json:"renewalCount"`
}

// SettleBalanceResponse reports a cleared patron balance.
type SettleBalanceResponse struct {
	PatronID      string          `json:"patronID"`
	AmountCleared decimal.Decimal `json:"amountCleared"`
	TransactionID string          `json:"transactionID"`
}

// ListTransactionsParams holds pagination parameters for ledger history listings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	CopyID        string          `json:"copyID"`
	PatronID      string          `json:"patronID"`
	BranchID      string          `json:"branchID"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	CheckoutDate  *time.Time      `json:"checkoutDate,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	ReturnDate    *time.Time      `json:"returnDate,omitempty"`
	FineAmount    decimal.Decimal `json:"fineAmount"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListTransactionsResponse is a token-paginated page of ledger history.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain ledger entry to its response DTO.
func ToTransactionResponse(t *domain.CirculationTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		CopyID:        t.CopyID,
		PatronID:      t.PatronID,
		BranchID:      t.BranchID,
		Type:          string(t.Type),
		Status:        string(t.Status),
		CheckoutDate:  t.CheckoutDate,
		DueDate:       t.DueDate,
		ReturnDate:    t.ReturnDate,
		FineAmount:    t.FineAmount,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain ledger entries to response DTOs.
func ToTransactionResponses(txns []domain.CirculationTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
