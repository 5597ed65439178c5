package domain

import "github.com/shopspring/decimal"

// LoanPolicy holds the externally configured circulation parameters for one
// item type: how long a loan runs and what an overdue day costs.
type LoanPolicy struct {
	ItemType      ItemType        `json:"itemType"` // Primary Key
	LoanDays      int             `json:"loanDays"`
	DailyFineRate decimal.Decimal `json:"dailyFineRate"`
	AuditFields
}
