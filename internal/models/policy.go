package models

import "github.com/shopspring/decimal"

// LoanPolicy is the database row shape for per-item-type circulation settings.
type LoanPolicy struct {
	ItemType      string          `db:"item_type"`
	LoanDays      int             `db:"loan_days"`
	DailyFineRate decimal.Decimal `db:"daily_fine_rate"`
	AuditFields
}
