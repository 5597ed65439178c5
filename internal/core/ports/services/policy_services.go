package services

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/dto"
)

// LoanPolicySvcFacade manages the per-item-type circulation settings.
type LoanPolicySvcFacade interface {
	// GetLoanPolicy retrieves the policy for an item type.
	GetLoanPolicy(ctx context.Context, itemType domain.ItemType) (*domain.LoanPolicy, error)

	// ListLoanPolicies retrieves all configured policies.
	ListLoanPolicies(ctx context.Context) ([]domain.LoanPolicy, error)

	// UpsertLoanPolicy creates or replaces the policy for an item type.
	UpsertLoanPolicy(ctx context.Context, req dto.UpsertLoanPolicyRequest, staffID string) (*domain.LoanPolicy, error)
}
