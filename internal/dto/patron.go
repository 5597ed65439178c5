package dto

import (
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePatronRequest is the payload for registering a borrower account.
type CreatePatronRequest struct {
	Name               string    `json:"name" binding:"required"`
	Email              string    `json:"email" binding:"required,email"`
	CardExpirationDate time.Time `json:"cardExpirationDate" binding:"required"`
	HomeBranchID       string    `json:"homeBranchID" binding:"required"`
}

// UpdatePatronRequest is the payload for amending a borrower account.
// Nil fields are left unchanged.
type UpdatePatronRequest struct {
	Name               *string    `json:"name"`
	Email              *string    `json:"email" binding:"omitempty,email"`
	IsActive           *bool      `json:"isActive"`
	CardExpirationDate *time.Time `json:"cardExpirationDate"`
}

// PatronResponse defines the data returned for a patron.
type PatronResponse struct {
	PatronID           string          `json:"patronID"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	IsActive           bool            `json:"isActive"`
	Balance            decimal.Decimal `json:"balance"`
	CardExpirationDate time.Time       `json:"cardExpirationDate"`
	HomeBranchID       string          `json:"homeBranchID"`
}

// ToPatronResponse converts a domain Patron to its response DTO.
func ToPatronResponse(p *domain.Patron) PatronResponse {
	return PatronResponse{
		PatronID:           p.PatronID,
		Name:               p.Name,
		Email:              p.Email,
		IsActive:           p.IsActive,
		Balance:            p.Balance,
		CardExpirationDate: p.CardExpirationDate,
		HomeBranchID:       p.HomeBranchID,
	}
}

// ToPatronResponses converts a slice of domain Patrons to response DTOs.
func ToPatronResponses(ps []domain.Patron) []PatronResponse {
	responses := make([]PatronResponse, len(ps))
	for i, p := range ps {
		responses[i] = ToPatronResponse(&p)
	}
	return responses
}
