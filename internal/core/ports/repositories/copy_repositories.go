package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CopyReader defines read operations for item copy data
type CopyReader interface {
	// FindCopyByID retrieves a specific copy by its unique identifier.
	FindCopyByID(ctx context.Context, copyID string) (*domain.ItemCopy, error)

	// FindCopyByIDForUpdate retrieves a copy and locks its row for the duration
	// of the transaction. Must be called within a transaction; this is what
	// serializes concurrent circulation operations on the same copy.
	FindCopyByIDForUpdate(ctx context.Context, tx pgx.Tx, copyID string) (*domain.ItemCopy, error)

	// ListCopiesByTitle retrieves all non-removed copies of a catalogued title.
	ListCopiesByTitle(ctx context.Context, titleID string) ([]domain.ItemCopy, error)
}

// CopyWriter defines write operations for item copy data
type CopyWriter interface {
	// SaveCopy persists a newly registered copy.
	SaveCopy(ctx context.Context, copy domain.ItemCopy) error

	// UpdateCopyInTx writes the copy's mutable fields inside an open transaction.
	UpdateCopyInTx(ctx context.Context, tx pgx.Tx, copy domain.ItemCopy) error

	// SoftRemoveCopy marks a copy as removed without deleting its row, so
	// transaction history keeps a valid reference.
	SoftRemoveCopy(ctx context.Context, copyID string, removedBy string, removedAt time.Time) error
}

// CopyRepositoryFacade combines all copy-related repository interfaces
type CopyRepositoryFacade interface {
	CopyReader
	CopyWriter
}

// CopyRepositoryWithTx extends CopyRepositoryFacade with transaction capabilities
type CopyRepositoryWithTx interface {
	CopyRepositoryFacade
	TransactionManager
}
