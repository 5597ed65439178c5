package dto

import (
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertLoanPolicyRequest is the payload for setting an item type's circulation policy.
type UpsertLoanPolicyRequest struct {
	ItemType      string          `json:"itemType" binding:"required,itemtype"`
	LoanDays      int             `json:"loanDays" binding:"required,min=1"`
	DailyFineRate decimal.Decimal `json:"dailyFineRate" binding:"required"`
}

// LoanPolicyResponse defines the data returned for a loan policy.
type LoanPolicyResponse struct {
	ItemType      string          `json:"itemType"`
	LoanDays      int             `json:"loanDays"`
	DailyFineRate decimal.Decimal `json:"dailyFineRate"`
}

// ToLoanPolicyResponse converts a domain LoanPolicy to its response DTO.
func ToLoanPolicyResponse(p *domain.LoanPolicy) LoanPolicyResponse {
	return LoanPolicyResponse{
		ItemType:      string(p.ItemType),
		LoanDays:      p.LoanDays,
		DailyFineRate: p.DailyFineRate,
	}
}

// ToLoanPolicyResponses converts a slice of domain LoanPolicies to response DTOs.
func ToLoanPolicyResponses(ps []domain.LoanPolicy) []LoanPolicyResponse {
	responses := make([]LoanPolicyResponse, len(ps))
	for i, p := range ps {
		responses[i] = ToLoanPolicyResponse(&p)
	}
	return responses
}
