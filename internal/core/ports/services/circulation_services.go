package services

import (
	"context"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/dto"
)

// CirculationSvcFacade is the coordinator for multi-entity circulation
// operations. Every method runs as one atomic unit of work against the store:
// validation failures abort before any write, and a mid-sequence write failure
// rolls the whole operation back.
type CirculationSvcFacade interface {
	// Checkout lends a copy to a patron after eligibility and availability
	// checks, creating the ACTIVE ledger entry.
	Checkout(ctx context.Context, req dto.CheckoutRequest, staffID string) (*dto.CheckoutResponse, error)

	// Checkin returns a copy, computes any overdue fine, closes the open
	// ledger entry and promotes the head of the reservation queue.
	Checkin(ctx context.Context, req dto.CheckinRequest, staffID string) (*dto.CheckinResponse, error)

	// Renew extends the open loan identified by its ledger entry, in place.
	Renew(ctx context.Context, transactionID string, staffID string) (*dto.RenewResponse, error)

	// MarkUnshelved pulls a copy from the shelf.
	MarkUnshelved(ctx context.Context, copyID string, staffID string) (*domain.ItemCopy, error)

	// Reshelve returns an unshelved copy to circulation, applying the same
	// ready-reservation promotion as checkin.
	Reshelve(ctx context.Context, copyID string, staffID string) (*dto.CheckinResponse, error)

	// MarkLost takes a copy out of circulation as lost and records the event.
	MarkLost(ctx context.Context, copyID string, staffID string) (*domain.ItemCopy, error)

	// MarkDamaged takes a copy out of circulation as damaged and records the event.
	MarkDamaged(ctx context.Context, copyID string, staffID string) (*domain.ItemCopy, error)

	// SettleBalance zeroes a patron's fine balance and records a BALANCE ledger
	// entry. Payment collection itself happens outside this system.
	SettleBalance(ctx context.Context, patronID string, staffID string) (*dto.SettleBalanceResponse, error)

	// ListPatronTransactions retrieves a token-paginated ledger history for a patron.
	ListPatronTransactions(ctx context.Context, patronID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListCopyTransactions retrieves a token-paginated ledger history for a copy.
	ListCopyTransactions(ctx context.Context, copyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
