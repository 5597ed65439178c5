package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// ErrCopyUnavailable is returned when the copy cannot be lent to the
// requesting patron in its current state.
var ErrCopyUnavailable = errors.New("copy is not available for checkout by this patron")

// ErrNotCheckedOut is returned when a checkin targets a copy with no open loan.
var ErrNotCheckedOut = errors.New("copy is not currently checked out")

// ErrNoOutstandingBalance is returned when settling a patron who owes nothing.
var ErrNoOutstandingBalance = fmt.Errorf("%w: patron has no outstanding balance", apperrors.ErrValidation)

const defaultHistoryPageSize = 20

type circulationService struct {
	copyRepo        portsrepo.CopyRepositoryWithTx
	reservationRepo portsrepo.ReservationRepositoryFacade
	txnRepo         portsrepo.CirculationTransactionRepositoryFacade
	patronRepo      portsrepo.PatronRepositoryFacade
	policyRepo      portsrepo.LoanPolicyRepositoryFacade
	eligibility     Eligibility
	holdDays        int
}

// NewCirculationService creates the coordinator for checkout, checkin, renewal
// and the other multi-entity circulation operations.
func NewCirculationService(
	copyRepo portsrepo.CopyRepositoryWithTx,
	reservationRepo portsrepo.ReservationRepositoryFacade,
	txnRepo portsrepo.CirculationTransactionRepositoryFacade,
	patronRepo portsrepo.PatronRepositoryFacade,
	policyRepo portsrepo.LoanPolicyRepositoryFacade,
	eligibility Eligibility,
	holdDays int,
) portssvc.CirculationSvcFacade {
	return &circulationService{
		copyRepo:        copyRepo,
		reservationRepo: reservationRepo,
		txnRepo:         txnRepo,
		patronRepo:      patronRepo,
		policyRepo:      policyRepo,
		eligibility:     eligibility,
		holdDays:        holdDays,
	}
}

// isSerializationFailure reports whether the error is a Postgres serialization
// or deadlock failure worth one retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// withConflictRetry runs fn, retrying exactly once on a store serialization
// failure. A second failure surfaces as ErrConflict for the caller to handle.
func (s *circulationService) withConflictRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !isSerializationFailure(err) {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Warn("Retrying after store serialization failure", slog.String("error", err.Error()))
	err = fn()
	if err != nil && isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	return err
}

// Checkout lends a copy to a patron. The copy and patron rows are locked for
// the duration, eligibility and availability are verified, and the loan is
// recorded as one ACTIVE ledger entry. With ClearFines set, an outstanding
// balance that would otherwise block the checkout is zeroed in the same unit
// of work.
func (s *circulationService) Checkout(ctx context.Context, req dto.CheckoutRequest, staffID string) (*dto.CheckoutResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var resp *dto.CheckoutResponse
	err := s.withConflictRetry(ctx, func() error {
		var err error
		resp, err = s.checkoutOnce(ctx, req, staffID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Copy checked out",
		slog.String("transactionID", resp.TransactionID),
		slog.String("copyID", req.CopyID),
		slog.String("patronID", req.PatronID),
		slog.Time("dueDate", resp.DueDate),
	)
	return resp, nil
}

func (s *circulationService) checkoutOnce(ctx context.Context, req dto.CheckoutRequest, staffID string) (*dto.CheckoutResponse, error) {
	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, req.CopyID)
	if err != nil {
		return nil, err
	}
	patron, err := s.patronRepo.FindPatronByIDForUpdate(ctx, tx, req.PatronID)
	if err != nil {
		return nil, err
	}
	activeLoans, err := s.txnRepo.CountActiveLoansForPatronInTx(ctx, tx, req.PatronID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active loans: %w", err)
	}

	now := time.Now().UTC()

	eligErr := s.eligibility.CanCheckout(*patron, activeLoans, now)
	clearFines := false
	if errors.Is(eligErr, ErrOutstandingBalance) && req.ClearFines {
		// Balance is the sole blocker and the desk authorized clearing it;
		// re-check the remaining rules as if the balance were already zero.
		settled := *patron
		settled.Balance = decimal.Zero
		eligErr = s.eligibility.CanCheckout(settled, activeLoans, now)
		clearFines = eligErr == nil
	}
	if eligErr != nil {
		return nil, eligErr
	}

	switch copy.Status {
	case domain.CopyAvailable:
		// Lendable to anyone.
	case domain.CopyReserved:
		// Lendable only to the patron holding the READY head-of-queue hold.
		active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, req.CopyID)
		if err != nil {
			return nil, fmt.Errorf("failed to read reservation queue: %w", err)
		}
		head := queueHead(active)
		if head == nil || head.Status != domain.ReservationReady || head.PatronID != req.PatronID {
			return nil, fmt.Errorf("%w: held for another patron", ErrCopyUnavailable)
		}
		if err := s.fulfillReservation(ctx, tx, head, active, now, staffID); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: copy status %s", ErrCopyUnavailable, copy.Status)
	}

	policy, err := s.policyRepo.FindLoanPolicy(ctx, copy.ItemType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve loan policy for %s: %w", copy.ItemType, err)
	}
	dueDate := now.Add(time.Duration(policy.LoanDays) * 24 * time.Hour)

	if err := copy.BeginCheckout(req.PatronID, dueDate); err != nil {
		return nil, err
	}
	copy.LastUpdatedAt = now
	copy.LastUpdatedBy = staffID
	if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
		return nil, fmt.Errorf("failed to update copy: %w", err)
	}

	if clearFines {
		if err := s.clearBalanceInTx(ctx, tx, patron, copy.CurrentBranchID, "balance cleared at checkout", now, staffID); err != nil {
			return nil, err
		}
	}

	loan := domain.CirculationTransaction{
		TransactionID: uuid.NewString(),
		CopyID:        req.CopyID,
		PatronID:      req.PatronID,
		BranchID:      copy.CurrentBranchID,
		Type:          domain.TxnCheckout,
		Status:        domain.TxnActive,
		CheckoutDate:  &now,
		DueDate:       &dueDate,
		FineAmount:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}
	if err := s.txnRepo.InsertTransactionInTx(ctx, tx, loan); err != nil {
		return nil, fmt.Errorf("failed to record loan: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &dto.CheckoutResponse{
		TransactionID: loan.TransactionID,
		CopyID:        req.CopyID,
		PatronID:      req.PatronID,
		DueDate:       dueDate,
	}, nil
}

// Checkin returns a copy. An overdue return charges ceil(days late) times the
// item type's daily rate onto the patron's balance, the ACTIVE loan entry is
// completed in place, and the head of the waitlist (if any) is promoted so the
// copy lands RESERVED rather than AVAILABLE.
func (s *circulationService) Checkin(ctx context.Context, req dto.CheckinRequest, staffID string) (*dto.CheckinResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var resp *dto.CheckinResponse
	err := s.withConflictRetry(ctx, func() error {
		var err error
		resp, err = s.checkinOnce(ctx, req, staffID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Copy checked in",
		slog.String("transactionID", resp.TransactionID),
		slog.String("copyID", req.CopyID),
		slog.String("copyStatus", resp.CopyStatus),
		slog.String("fineAmount", resp.FineAmount.String()),
	)
	return resp, nil
}

func (s *circulationService) checkinOnce(ctx context.Context, req dto.CheckinRequest, staffID string) (*dto.CheckinResponse, error) {
	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, req.CopyID)
	if err != nil {
		return nil, err
	}
	if !copy.Status.InLoan() {
		return nil, fmt.Errorf("%w: copy status %s", ErrNotCheckedOut, copy.Status)
	}

	loan, err := s.txnRepo.FindActiveLoanForCopyInTx(ctx, tx, req.CopyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open loan record", ErrNotCheckedOut)
		}
		return nil, fmt.Errorf("failed to find open loan: %w", err)
	}

	now := time.Now().UTC()
	fine := decimal.Zero
	overdueDays := 0
	if loan.IsOverdue(now) {
		policy, err := s.policyRepo.FindLoanPolicy(ctx, copy.ItemType)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve loan policy for %s: %w", copy.ItemType, err)
		}
		overdueDays = int(math.Ceil(now.Sub(*loan.DueDate).Hours() / 24))
		fine = policy.DailyFineRate.Mul(decimal.NewFromInt(int64(overdueDays)))

		patron, err := s.patronRepo.FindPatronByIDForUpdate(ctx, tx, loan.PatronID)
		if err != nil {
			return nil, err
		}
		newBalance := patron.Balance.Add(fine)
		if err := s.patronRepo.UpdatePatronBalanceInTx(ctx, tx, patron.PatronID, newBalance, staffID, now); err != nil {
			return nil, fmt.Errorf("failed to charge fine: %w", err)
		}
	}

	active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, req.CopyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation queue: %w", err)
	}
	promoted := promoteHead(active, now, s.holdDays, staffID)

	if err := copy.BeginCheckin(domain.CopyCondition(req.Condition), req.BranchID, promoted != nil); err != nil {
		return nil, err
	}
	copy.LastUpdatedAt = now
	copy.LastUpdatedBy = staffID
	if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
		return nil, fmt.Errorf("failed to update copy: %w", err)
	}

	var promotedPatronID *string
	if promoted != nil {
		if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, *promoted); err != nil {
			return nil, fmt.Errorf("failed to promote reservation: %w", err)
		}
		promotedPatronID = &promoted.PatronID
	}

	loan.Status = domain.TxnCompleted
	loan.ReturnDate = &now
	loan.FineAmount = fine
	if req.Notes != "" {
		loan.Notes = req.Notes
	}
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = staffID
	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *loan); err != nil {
		return nil, fmt.Errorf("failed to close loan: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &dto.CheckinResponse{
		TransactionID:    loan.TransactionID,
		CopyStatus:       string(copy.Status),
		FineAmount:       fine,
		OverdueDays:      overdueDays,
		PromotedPatronID: promotedPatronID,
	}, nil
}

// Renew extends the open loan identified by its ledger entry. The due date is
// recomputed from now, the copy advances through its renewal sub-states, and
// the existing ACTIVE entry is updated in place.
func (s *circulationService) Renew(ctx context.Context, transactionID string, staffID string) (*dto.RenewResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var resp *dto.RenewResponse
	err := s.withConflictRetry(ctx, func() error {
		var err error
		resp, err = s.renewOnce(ctx, transactionID, staffID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan renewed",
		slog.String("transactionID", transactionID),
		slog.Time("newDueDate", resp.NewDueDate),
		slog.Int("renewalCount", resp.RenewalCount),
	)
	return resp, nil
}

func (s *circulationService) renewOnce(ctx context.Context, transactionID string, staffID string) (*dto.RenewResponse, error) {
	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	loan, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if loan.Type != domain.TxnCheckout || loan.Status != domain.TxnActive {
		return nil, apperrors.NewNotFoundError("no active loan with that transaction ID")
	}

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, loan.CopyID)
	if err != nil {
		return nil, err
	}
	patron, err := s.patronRepo.FindPatronByIDForUpdate(ctx, tx, loan.PatronID)
	if err != nil {
		return nil, err
	}
	activeLoans, err := s.txnRepo.CountActiveLoansForPatronInTx(ctx, tx, loan.PatronID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active loans: %w", err)
	}
	active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, loan.CopyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation queue: %w", err)
	}
	othersWaiting := false
	for _, r := range active {
		if r.PatronID != loan.PatronID {
			othersWaiting = true
			break
		}
	}

	now := time.Now().UTC()
	if err := s.eligibility.CanRenew(*patron, *copy, othersWaiting, activeLoans, now); err != nil {
		return nil, err
	}

	policy, err := s.policyRepo.FindLoanPolicy(ctx, copy.ItemType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve loan policy for %s: %w", copy.ItemType, err)
	}
	newDueDate := now.Add(time.Duration(policy.LoanDays) * 24 * time.Hour)

	if err := copy.Renew(newDueDate); err != nil {
		return nil, err
	}
	copy.LastUpdatedAt = now
	copy.LastUpdatedBy = staffID
	if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
		return nil, fmt.Errorf("failed to update copy: %w", err)
	}

	loan.DueDate = &newDueDate
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = staffID
	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &dto.RenewResponse{
		TransactionID: transactionID,
		NewDueDate:    newDueDate,
		RenewalCount:  copy.Status.Renewals(),
	}, nil
}

// MarkUnshelved pulls a copy from the shelf for internal handling. Any active
// reservations keep their positions; the queue resumes when the copy is reshelved.
func (s *circulationService) MarkUnshelved(ctx context.Context, copyID string, staffID string) (*domain.ItemCopy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, copyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := copy.MarkUnshelved(); err != nil {
		return nil, err
	}
	copy.LastUpdatedAt = now
	copy.LastUpdatedBy = staffID
	if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
		return nil, fmt.Errorf("failed to update copy: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Copy unshelved", slog.String("copyID", copyID))
	return copy, nil
}

// Reshelve returns an unshelved copy to circulation, promoting the head of the
// waitlist exactly as checkin does, and records a RESHELVE ledger entry.
func (s *circulationService) Reshelve(ctx context.Context, copyID string, staffID string) (*dto.CheckinResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, copyID)
	if err != nil {
		return nil, err
	}
	active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, copyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation queue: %w", err)
	}

	now := time.Now().UTC()
	promoted := promoteHead(active, now, s.holdDays, staffID)

	if err := copy.Reshelve(promoted != nil); err != nil {
		return nil, err
	}
	copy.LastUpdatedAt = now
	copy.LastUpdatedBy = staffID
	if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
		return nil, fmt.Errorf("failed to update copy: %w", err)
	}

	var promotedPatronID *string
	if promoted != nil {
		if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, *promoted); err != nil {
			return nil, fmt.Errorf("failed to promote reservation: %w", err)
		}
		promotedPatronID = &promoted.PatronID
	}

	event := domain.CirculationTransaction{
		TransactionID: uuid.NewString(),
		CopyID:        copyID,
		BranchID:      copy.CurrentBranchID,
		Type:          domain.TxnReshelve,
		Status:        domain.TxnCompleted,
		FineAmount:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}
	if err := s.txnRepo.InsertTransactionInTx(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to record reshelve event: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Copy reshelved", slog.String("copyID", copyID), slog.String("copyStatus", string(copy.Status)))
	return &dto.CheckinResponse{
		TransactionID:    event.TransactionID,
		CopyStatus:       string(copy.Status),
		FineAmount:       decimal.Zero,
		PromotedPatronID: promotedPatronID,
	}, nil
}

// MarkLost takes a copy out of circulation as lost. An open loan is completed,
// the active waitlist is cancelled (the physical item is gone) and the event
// is recorded.
func (s *circulationService) MarkLost(ctx context.Context, copyID string, staffID string) (*domain.ItemCopy, error) {
	return s.retireCopy(ctx, copyID, staffID, domain.TxnLost, "copy reported lost", func(c *domain.ItemCopy) error {
		return c.MarkLost()
	})
}

// MarkDamaged takes a copy out of circulation as damaged, with the same loan
// and waitlist handling as MarkLost.
func (s *circulationService) MarkDamaged(ctx context.Context, copyID string, staffID string) (*domain.ItemCopy, error) {
	return s.retireCopy(ctx, copyID, staffID, domain.TxnDamaged, "copy reported damaged", func(c *domain.ItemCopy) error {
		return c.MarkDamaged()
	})
}

func (s *circulationService) retireCopy(ctx context.Context, copyID string, staffID string, eventType domain.TransactionType, note string, transition func(*domain.ItemCopy) error) (*domain.ItemCopy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, copyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var loanPatronID string
	loan, err := s.txnRepo.FindActiveLoanForCopyInTx(ctx, tx, copyID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find open loan: %w", err)
	}
	if loan != nil {
		loan.Status = domain.TxnCompleted
		loan.ReturnDate = &now
		loan.Notes = note
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = staffID
		if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *loan); err != nil {
			return nil, fmt.Errorf("failed to close loan: %w", err)
		}
		loanPatronID = loan.PatronID
	}

	if err := transition(copy); err != nil {
		return nil, err
	}
	copy.LastUpdatedAt = now
	copy.LastUpdatedBy = staffID
	if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
		return nil, fmt.Errorf("failed to update copy: %w", err)
	}

	// The physical item has left circulation; nobody in the queue can be served.
	active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, copyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation queue: %w", err)
	}
	for _, r := range active {
		r.Status = domain.ReservationCancelled
		r.LastUpdatedAt = now
		r.LastUpdatedBy = staffID
		if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, r); err != nil {
			return nil, fmt.Errorf("failed to cancel reservation: %w", err)
		}
	}

	event := domain.CirculationTransaction{
		TransactionID: uuid.NewString(),
		CopyID:        copyID,
		PatronID:      loanPatronID,
		BranchID:      copy.CurrentBranchID,
		Type:          eventType,
		Status:        domain.TxnCompleted,
		FineAmount:    decimal.Zero,
		Notes:         note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}
	if err := s.txnRepo.InsertTransactionInTx(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Copy retired from circulation",
		slog.String("copyID", copyID),
		slog.String("status", string(copy.Status)),
		slog.Int("cancelledReservations", len(active)),
	)
	return copy, nil
}

// SettleBalance zeroes a patron's fine balance and records the settlement.
// Payment collection itself happens at the desk, outside this system.
func (s *circulationService) SettleBalance(ctx context.Context, patronID string, staffID string) (*dto.SettleBalanceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	patron, err := s.patronRepo.FindPatronByIDForUpdate(ctx, tx, patronID)
	if err != nil {
		return nil, err
	}
	if !patron.HasOutstandingBalance() {
		return nil, ErrNoOutstandingBalance
	}

	now := time.Now().UTC()
	amount := patron.Balance
	entryID, err := s.clearBalanceEntryInTx(ctx, tx, patron, patron.HomeBranchID, "balance settled", now, staffID)
	if err != nil {
		return nil, err
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Patron balance settled",
		slog.String("patronID", patronID),
		slog.String("amountCleared", amount.String()),
	)
	return &dto.SettleBalanceResponse{
		PatronID:      patronID,
		AmountCleared: amount,
		TransactionID: entryID,
	}, nil
}

// ListPatronTransactions retrieves a token-paginated ledger history for a patron.
func (s *circulationService) ListPatronTransactions(ctx context.Context, patronID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.patronRepo.FindPatronByID(ctx, patronID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	txns, nextToken, err := s.txnRepo.ListTransactionsByPatron(ctx, patronID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ListCopyTransactions retrieves a token-paginated ledger history for a copy.
func (s *circulationService) ListCopyTransactions(ctx context.Context, copyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.copyRepo.FindCopyByID(ctx, copyID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	txns, nextToken, err := s.txnRepo.ListTransactionsByCopy(ctx, copyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// clearBalanceInTx zeroes the patron's balance and writes the BALANCE ledger
// entry, discarding the entry ID.
func (s *circulationService) clearBalanceInTx(ctx context.Context, tx pgx.Tx, patron *domain.Patron, branchID, note string, now time.Time, staffID string) error {
	_, err := s.clearBalanceEntryInTx(ctx, tx, patron, branchID, note, now, staffID)
	return err
}

// clearBalanceEntryInTx zeroes the patron's balance inside the open transaction
// and records a BALANCE ledger entry carrying the negated amount.
func (s *circulationService) clearBalanceEntryInTx(ctx context.Context, tx pgx.Tx, patron *domain.Patron, branchID, note string, now time.Time, staffID string) (string, error) {
	amount := patron.Balance
	if err := s.patronRepo.UpdatePatronBalanceInTx(ctx, tx, patron.PatronID, decimal.Zero, staffID, now); err != nil {
		return "", fmt.Errorf("failed to clear balance: %w", err)
	}
	entry := domain.CirculationTransaction{
		TransactionID: uuid.NewString(),
		PatronID:      patron.PatronID,
		BranchID:      branchID,
		Type:          domain.TxnBalance,
		Status:        domain.TxnCompleted,
		FineAmount:    amount.Neg(),
		Notes:         note,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}
	if err := s.txnRepo.InsertTransactionInTx(ctx, tx, entry); err != nil {
		return "", fmt.Errorf("failed to record balance settlement: %w", err)
	}
	return entry.TransactionID, nil
}

// fulfillReservation closes the READY head reservation being picked up, shifts
// the rest of the queue down one position and completes the reservation's
// ledger entry.
func (s *circulationService) fulfillReservation(ctx context.Context, tx pgx.Tx, head *domain.Reservation, active []domain.Reservation, now time.Time, staffID string) error {
	vacated := head.QueuePosition
	head.Status = domain.ReservationFulfilled
	head.FulfillmentDate = &now
	head.LastUpdatedAt = now
	head.LastUpdatedBy = staffID
	if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, *head); err != nil {
		return fmt.Errorf("failed to fulfill reservation: %w", err)
	}

	rest := make([]domain.Reservation, 0, len(active))
	for _, r := range active {
		if r.ReservationID != head.ReservationID {
			rest = append(rest, r)
		}
	}
	for _, shifted := range closeQueueGap(rest, vacated) {
		shifted.LastUpdatedAt = now
		shifted.LastUpdatedBy = staffID
		if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, shifted); err != nil {
			return fmt.Errorf("failed to renumber queue: %w", err)
		}
	}

	entry, err := s.txnRepo.FindOpenReservationEntryInTx(ctx, tx, head.CopyID, head.PatronID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read reservation ledger entry: %w", err)
	}
	entry.Status = domain.TxnCompleted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = staffID
	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, *entry); err != nil {
		return fmt.Errorf("failed to close reservation ledger entry: %w", err)
	}
	return nil
}
