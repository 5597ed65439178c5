package services

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/dto"
)

// PatronSvcFacade covers single-entity patron account management.
type PatronSvcFacade interface {
	// CreatePatron registers a borrower account.
	CreatePatron(ctx context.Context, req dto.CreatePatronRequest, staffID string) (*domain.Patron, error)

	// GetPatron retrieves a patron by ID.
	GetPatron(ctx context.Context, patronID string) (*domain.Patron, error)

	// ListPatrons retrieves a paginated list of patrons.
	ListPatrons(ctx context.Context, limit int, offset int) ([]domain.Patron, error)

	// UpdatePatron amends a patron's details.
	UpdatePatron(ctx context.Context, patronID string, req dto.UpdatePatronRequest, staffID string) (*domain.Patron, error)

	// DeletePatron soft-deletes a patron account.
	DeletePatron(ctx context.Context, patronID string, staffID string) error
}
