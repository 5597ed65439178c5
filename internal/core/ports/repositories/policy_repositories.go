package repositories

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// LoanPolicyRepositoryFacade defines persistence operations for loan policies.
// Policies are the externally configured per-item-type lookups (loan duration,
// per-day fine rate) the coordinator reads but does not own.
type LoanPolicyRepositoryFacade interface {
	// FindLoanPolicy retrieves the policy for an item type.
	FindLoanPolicy(ctx context.Context, itemType domain.ItemType) (*domain.LoanPolicy, error)

	// ListLoanPolicies retrieves all configured policies.
	ListLoanPolicies(ctx context.Context) ([]domain.LoanPolicy, error)

	// SaveLoanPolicy inserts or replaces the policy for an item type.
	SaveLoanPolicy(ctx context.Context, policy domain.LoanPolicy) error
}
