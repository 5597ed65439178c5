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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type patronService struct {
	patronRepo portsrepo.PatronRepositoryFacade
}

// NewPatronService creates a new patron account service.
func NewPatronService(patronRepo portsrepo.PatronRepositoryFacade) portssvc.PatronSvcFacade {
	return &patronService{patronRepo: patronRepo}
}

// CreatePatron registers a borrower account. Accounts start active with a zero
// balance.
func (s *patronService) CreatePatron(ctx context.Context, req dto.CreatePatronRequest, staffID string) (*domain.Patron, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	patron := domain.Patron{
		PatronID:           uuid.NewString(),
		Name:               req.Name,
		Email:              req.Email,
		IsActive:           true,
		Balance:            decimal.Zero,
		CardExpirationDate: req.CardExpirationDate,
		HomeBranchID:       req.HomeBranchID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.patronRepo.SavePatron(ctx, patron); err != nil {
		return nil, fmt.Errorf("failed to save patron: %w", err)
	}

	logger.Info("Patron created", slog.String("patronID", patron.PatronID))
	return &patron, nil
}

// GetPatron retrieves a patron by ID.
func (s *patronService) GetPatron(ctx context.Context, patronID string) (*domain.Patron, error) {
	return s.patronRepo.FindPatronByID(ctx, patronID)
}

// ListPatrons retrieves a paginated list of patrons.
func (s *patronService) ListPatrons(ctx context.Context, limit int, offset int) ([]domain.Patron, error) {
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.patronRepo.ListPatrons(ctx, limit, offset)
}

// UpdatePatron amends a patron's details. Nil request fields are left unchanged;
// the balance is never writable through this path.
func (s *patronService) UpdatePatron(ctx context.Context, patronID string, req dto.UpdatePatronRequest, staffID string) (*domain.Patron, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	patron, err := s.patronRepo.FindPatronByID(ctx, patronID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patron.Name = *req.Name
	}
	if req.Email != nil {
		patron.Email = *req.Email
	}
	if req.IsActive != nil {
		patron.IsActive = *req.IsActive
	}
	if req.CardExpirationDate != nil {
		patron.CardExpirationDate = *req.CardExpirationDate
	}
	patron.LastUpdatedAt = time.Now().UTC()
	patron.LastUpdatedBy = staffID

	if err := s.patronRepo.UpdatePatron(ctx, *patron); err != nil {
		return nil, fmt.Errorf("failed to update patron: %w", err)
	}

	logger.Info("Patron updated", slog.String("patronID", patronID))
	return patron, nil
}

// DeletePatron soft-deletes a patron account.
func (s *patronService) DeletePatron(ctx context.Context, patronID string, staffID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.patronRepo.FindPatronByID(ctx, patronID); err != nil {
		return err
	}
	if err := s.patronRepo.SoftDeletePatron(ctx, patronID, staffID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete patron: %w", err)
	}

	logger.Info("Patron deleted", slog.String("patronID", patronID))
	return nil
}
