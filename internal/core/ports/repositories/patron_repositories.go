package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PatronReader defines read operations for patron data
type PatronReader interface {
	// FindPatronByID retrieves a specific patron by their unique identifier.
	FindPatronByID(ctx context.Context, patronID string) (*domain.Patron, error)

	// FindPatronByIDForUpdate retrieves a patron and locks their row.
	// Must be called within a transaction.
	FindPatronByIDForUpdate(ctx context.Context, tx pgx.Tx, patronID string) (*domain.Patron, error)

	// ListPatrons retrieves a paginated list of non-deleted patrons.
	ListPatrons(ctx context.Context, limit int, offset int) ([]domain.Patron, error)
}

// PatronWriter defines write operations for patron data
type PatronWriter interface {
	// SavePatron persists a new patron.
	SavePatron(ctx context.Context, patron domain.Patron) error

	// UpdatePatron updates an existing patron's details.
	UpdatePatron(ctx context.Context, patron domain.Patron) error

	// UpdatePatronBalanceInTx writes a patron's fine balance inside an open transaction.
	UpdatePatronBalanceInTx(ctx context.Context, tx pgx.Tx, patronID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// SoftDeletePatron marks a patron as deleted without removing their row.
	SoftDeletePatron(ctx context.Context, patronID string, deletedBy string, deletedAt time.Time) error
}

// PatronRepositoryFacade combines all patron-related repository interfaces
type PatronRepositoryFacade interface {
	PatronReader
	PatronWriter
}
