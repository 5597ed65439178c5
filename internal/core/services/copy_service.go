package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/google/uuid"
)

type copyService struct {
	copyRepo portsrepo.CopyRepositoryFacade
}

// NewCopyService creates a new copy inventory service.
func NewCopyService(copyRepo portsrepo.CopyRepositoryFacade) portssvc.CopySvcFacade {
	return &copyService{copyRepo: copyRepo}
}

// RegisterCopy adds a physical copy to a title's inventory. New copies start
// AVAILABLE at their owning branch.
func (s *copyService) RegisterCopy(ctx context.Context, req dto.CreateCopyRequest, staffID string) (*domain.ItemCopy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	condition := domain.ConditionGood
	if req.Condition != "" {
		condition = domain.CopyCondition(req.Condition)
	}

	now := time.Now().UTC()
	copy := domain.ItemCopy{
		CopyID:          uuid.NewString(),
		TitleID:         req.TitleID,
		Barcode:         req.Barcode,
		ItemType:        domain.ItemType(req.ItemType),
		OwningBranchID:  req.OwningBranchID,
		CurrentBranchID: req.OwningBranchID,
		Condition:       condition,
		Status:          domain.CopyAvailable,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.copyRepo.SaveCopy(ctx, copy); err != nil {
		return nil, fmt.Errorf("failed to save copy: %w", err)
	}

	logger.Info("Copy registered",
		slog.String("copyID", copy.CopyID),
		slog.String("titleID", copy.TitleID),
		slog.String("barcode", copy.Barcode),
	)
	return &copy, nil
}

// GetCopy retrieves a copy by ID.
func (s *copyService) GetCopy(ctx context.Context, copyID string) (*domain.ItemCopy, error) {
	return s.copyRepo.FindCopyByID(ctx, copyID)
}

// ListCopiesByTitle retrieves all non-removed copies of a title.
func (s *copyService) ListCopiesByTitle(ctx context.Context, titleID string) ([]domain.ItemCopy, error) {
	return s.copyRepo.ListCopiesByTitle(ctx, titleID)
}

// RemoveCopy soft-removes a copy from inventory. A copy that is on loan or
// holding a reservation cannot be removed; it has open obligations.
func (s *copyService) RemoveCopy(ctx context.Context, copyID string, staffID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	copy, err := s.copyRepo.FindCopyByID(ctx, copyID)
	if err != nil {
		return err
	}
	if copy.Status.InLoan() || copy.Status == domain.CopyReserved {
		return fmt.Errorf("%w: copy has open obligations in status %s", apperrors.ErrValidation, copy.Status)
	}

	if err := s.copyRepo.SoftRemoveCopy(ctx, copyID, staffID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to remove copy: %w", err)
	}

	logger.Info("Copy removed from inventory", slog.String("copyID", copyID))
	return nil
}
