package services

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/dto"
)

// CopySvcFacade covers single-entity copy management. Status changes that
// touch the ledger or the reservation queue live on CirculationSvcFacade.
type CopySvcFacade interface {
	// RegisterCopy adds a physical copy to a title's inventory.
	RegisterCopy(ctx context.Context, req dto.CreateCopyRequest, staffID string) (*domain.ItemCopy, error)

	// GetCopy retrieves a copy by ID.
	GetCopy(ctx context.Context, copyID string) (*domain.ItemCopy, error)

	// ListCopiesByTitle retrieves all non-removed copies of a title.
	ListCopiesByTitle(ctx context.Context, titleID string) ([]domain.ItemCopy, error)

	// RemoveCopy soft-removes a copy; ledger history keeps referencing it.
	RemoveCopy(ctx context.Context, copyID string, staffID string) error
}
