package repositories

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CirculationTransactionReader defines read operations for ledger data
type CirculationTransactionReader interface {
	// FindTransactionByID retrieves a specific ledger entry by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.CirculationTransaction, error)

	// FindTransactionByIDForUpdate retrieves a ledger entry and locks its row.
	// Must be called within a transaction.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.CirculationTransaction, error)

	// FindActiveLoanForCopyInTx retrieves the single ACTIVE checkout entry for a
	// copy, if any, inside an open transaction.
	FindActiveLoanForCopyInTx(ctx context.Context, tx pgx.Tx, copyID string) (*domain.CirculationTransaction, error)

	// CountActiveLoansForPatronInTx counts a patron's open loans inside an open
	// transaction; used for the checkout cap.
	CountActiveLoansForPatronInTx(ctx context.Context, tx pgx.Tx, patronID string) (int, error)

	// FindOpenReservationEntryInTx retrieves the WAITING reservation ledger
	// entry for a copy/patron pair, if any, inside an open transaction. The
	// entry is closed when the reservation leaves the active queue.
	FindOpenReservationEntryInTx(ctx context.Context, tx pgx.Tx, copyID string, patronID string) (*domain.CirculationTransaction, error)

	// ListTransactionsByPatron retrieves a token-paginated ledger history for a patron.
	ListTransactionsByPatron(ctx context.Context, patronID string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error)

	// ListTransactionsByCopy retrieves a token-paginated ledger history for a copy.
	ListTransactionsByCopy(ctx context.Context, copyID string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error)
}

// CirculationTransactionWriter defines write operations for ledger data.
// Entries are append-only: updates touch status, return date and fine amount of
// an existing entry, never replace it.
type CirculationTransactionWriter interface {
	// InsertTransactionInTx persists a new ledger entry inside an open transaction.
	InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.CirculationTransaction) error

	// UpdateTransactionInTx writes the mutable fields of an existing ledger
	// entry inside an open transaction.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.CirculationTransaction) error
}

// CirculationTransactionRepositoryFacade combines all ledger repository interfaces
type CirculationTransactionRepositoryFacade interface {
	CirculationTransactionReader
	CirculationTransactionWriter
}
