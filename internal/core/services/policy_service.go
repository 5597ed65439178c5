package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
)

type loanPolicyService struct {
	policyRepo portsrepo.LoanPolicyRepositoryFacade
}

// NewLoanPolicyService creates a new loan policy service.
func NewLoanPolicyService(policyRepo portsrepo.LoanPolicyRepositoryFacade) portssvc.LoanPolicySvcFacade {
	return &loanPolicyService{policyRepo: policyRepo}
}

// GetLoanPolicy retrieves the policy for an item type.
func (s *loanPolicyService) GetLoanPolicy(ctx context.Context, itemType domain.ItemType) (*domain.LoanPolicy, error) {
	return s.policyRepo.FindLoanPolicy(ctx, itemType)
}

// ListLoanPolicies retrieves all configured policies.
func (s *loanPolicyService) ListLoanPolicies(ctx context.Context) ([]domain.LoanPolicy, error) {
	return s.policyRepo.ListLoanPolicies(ctx)
}

// UpsertLoanPolicy creates or replaces the policy for an item type.
func (s *loanPolicyService) UpsertLoanPolicy(ctx context.Context, req dto.UpsertLoanPolicyRequest, staffID string) (*domain.LoanPolicy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	policy := domain.LoanPolicy{
		ItemType:      domain.ItemType(req.ItemType),
		LoanDays:      req.LoanDays,
		DailyFineRate: req.DailyFineRate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.policyRepo.SaveLoanPolicy(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to save loan policy: %w", err)
	}

	logger.Info("Loan policy updated",
		slog.String("itemType", req.ItemType),
		slog.Int("loanDays", req.LoanDays),
		slog.String("dailyFineRate", req.DailyFineRate.String()),
	)
	return &policy, nil
}
