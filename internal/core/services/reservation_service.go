package services

import (
	"context"
	"errors"
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
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ErrReservationClosed is returned when cancelling a reservation that has
// already reached a terminal status.
var ErrReservationClosed = errors.New("reservation is already in a terminal status")

// ErrCopyNotCirculating rejects a reservation on a copy that has left
// circulation (lost, damaged or removed).
var ErrCopyNotCirculating = fmt.Errorf("%w: copy is not in circulation", apperrors.ErrValidation)

type reservationService struct {
	copyRepo        portsrepo.CopyRepositoryWithTx
	reservationRepo portsrepo.ReservationRepositoryFacade
	txnRepo         portsrepo.CirculationTransactionRepositoryFacade
	patronRepo      portsrepo.PatronRepositoryFacade
	eligibility     Eligibility
	holdDays        int
}

// NewReservationService creates a new reservation queue service.
func NewReservationService(
	copyRepo portsrepo.CopyRepositoryWithTx,
	reservationRepo portsrepo.ReservationRepositoryFacade,
	txnRepo portsrepo.CirculationTransactionRepositoryFacade,
	patronRepo portsrepo.PatronRepositoryFacade,
	eligibility Eligibility,
	holdDays int,
) portssvc.ReservationSvcFacade {
	return &reservationService{
		copyRepo:        copyRepo,
		reservationRepo: reservationRepo,
		txnRepo:         txnRepo,
		patronRepo:      patronRepo,
		eligibility:     eligibility,
		holdDays:        holdDays,
	}
}

// Reserve enqueues a patron on a copy's waitlist. The copy row is locked first
// so that concurrent reservations on the same copy serialize and positions stay
// dense. On an available copy with an empty queue the reservation is created
// READY at position 1 and the copy turns RESERVED.
func (s *reservationService) Reserve(ctx context.Context, req dto.CreateReservationRequest, staffID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, req.CopyID)
	if err != nil {
		return nil, err
	}
	if copy.Status == domain.CopyLost || copy.Status == domain.CopyDamaged || copy.DeletedAt != nil {
		return nil, ErrCopyNotCirculating
	}

	patron, err := s.patronRepo.FindPatronByID(ctx, req.PatronID)
	if err != nil {
		return nil, err
	}

	active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, req.CopyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation queue: %w", err)
	}

	if err := s.eligibility.CanReserve(*patron, active); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reservation := domain.Reservation{
		ReservationID:   uuid.NewString(),
		CopyID:          req.CopyID,
		PatronID:        req.PatronID,
		ReservationDate: now,
		Status:          domain.ReservationWaiting,
		QueuePosition:   len(active) + 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	// An available copy with nobody ahead goes straight on hold for this patron.
	if copy.Status == domain.CopyAvailable && len(active) == 0 {
		expiry := now.AddDate(0, 0, s.holdDays)
		reservation.Status = domain.ReservationReady
		reservation.ExpiryDate = &expiry

		copy.Status = domain.CopyReserved
		copy.LastUpdatedAt = now
		copy.LastUpdatedBy = staffID
		if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
			return nil, fmt.Errorf("failed to update copy: %w", err)
		}
	}

	if err := s.reservationRepo.InsertReservationInTx(ctx, tx, reservation); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	ledger := domain.CirculationTransaction{
		TransactionID: uuid.NewString(),
		CopyID:        req.CopyID,
		PatronID:      req.PatronID,
		BranchID:      copy.CurrentBranchID,
		Type:          domain.TxnReservation,
		Status:        domain.TxnWaiting,
		FineAmount:    decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}
	if err := s.txnRepo.InsertTransactionInTx(ctx, tx, ledger); err != nil {
		return nil, fmt.Errorf("failed to record reservation event: %w", err)
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Reservation created",
		slog.String("reservationID", reservation.ReservationID),
		slog.String("copyID", req.CopyID),
		slog.String("patronID", req.PatronID),
		slog.Int("queuePosition", reservation.QueuePosition),
		slog.String("status", string(reservation.Status)),
	)
	return &reservation, nil
}

// Cancel withdraws a reservation. Active entries behind it shift down one
// position; when the cancelled reservation was READY the new head (if any) is
// promoted, otherwise a RESERVED copy goes back to AVAILABLE.
func (s *reservationService) Cancel(ctx context.Context, reservationID string, staffID string) (*dto.CancelReservationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.copyRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.copyRepo.Rollback(ctx, tx) }()

	reservation, err := s.reservationRepo.FindReservationByIDForUpdate(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", ErrReservationClosed, reservation.Status)
	}

	copy, err := s.copyRepo.FindCopyByIDForUpdate(ctx, tx, reservation.CopyID)
	if err != nil {
		return nil, err
	}

	active, err := s.reservationRepo.FindActiveReservationsForCopyForUpdate(ctx, tx, reservation.CopyID)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation queue: %w", err)
	}

	now := time.Now().UTC()
	wasReady := reservation.Status == domain.ReservationReady
	vacated := reservation.QueuePosition

	reservation.Status = domain.ReservationCancelled
	reservation.LastUpdatedAt = now
	reservation.LastUpdatedBy = staffID
	if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, *reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	remaining := make([]domain.Reservation, 0, len(active))
	for _, r := range active {
		if r.ReservationID != reservation.ReservationID {
			remaining = append(remaining, r)
		}
	}
	for _, shifted := range closeQueueGap(remaining, vacated) {
		shifted.LastUpdatedAt = now
		shifted.LastUpdatedBy = staffID
		if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, shifted); err != nil {
			return nil, fmt.Errorf("failed to renumber queue: %w", err)
		}
	}

	var promotedPatronID *string
	if wasReady {
		// remaining was renumbered in place by closeQueueGap.
		if promoted := promoteHead(remaining, now, s.holdDays, staffID); promoted != nil {
			if err := s.reservationRepo.UpdateReservationInTx(ctx, tx, *promoted); err != nil {
				return nil, fmt.Errorf("failed to promote reservation: %w", err)
			}
			promotedPatronID = &promoted.PatronID
		} else if copy.Status == domain.CopyReserved {
			copy.Status = domain.CopyAvailable
			copy.LastUpdatedAt = now
			copy.LastUpdatedBy = staffID
			if err := s.copyRepo.UpdateCopyInTx(ctx, tx, *copy); err != nil {
				return nil, fmt.Errorf("failed to update copy: %w", err)
			}
		}
	}

	if err := s.closeReservationEntry(ctx, tx, reservation.CopyID, reservation.PatronID, now, staffID); err != nil {
		return nil, err
	}

	if err := s.copyRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Reservation cancelled",
		slog.String("reservationID", reservationID),
		slog.String("copyID", reservation.CopyID),
		slog.Bool("wasReady", wasReady),
	)
	return &dto.CancelReservationResponse{
		ReservationID:    reservationID,
		CopyStatus:       string(copy.Status),
		PromotedPatronID: promotedPatronID,
	}, nil
}

// GetQueue retrieves the ordered active waitlist for a copy.
func (s *reservationService) GetQueue(ctx context.Context, copyID string) ([]domain.Reservation, error) {
	if _, err := s.copyRepo.FindCopyByID(ctx, copyID); err != nil {
		return nil, err
	}
	return s.reservationRepo.FindActiveReservationsForCopy(ctx, copyID)
}

// ListPatronReservations retrieves all reservations held by a patron.
func (s *reservationService) ListPatronReservations(ctx context.Context, patronID string) ([]domain.Reservation, error) {
	if _, err := s.patronRepo.FindPatronByID(ctx, patronID); err != nil {
		return nil, err
	}
	return s.reservationRepo.ListReservationsByPatron(ctx, patronID)
}

// closeReservationEntry completes the WAITING ledger entry for the pair, if one
// exists. A missing entry is not an error; the ledger is advisory history.
func (s *reservationService) closeReservationEntry(ctx context.Context, tx pgx.Tx, copyID, patronID string, now time.Time, staffID string) error {
	entry, err := s.txnRepo.FindOpenReservationEntryInTx(ctx, tx, copyID, patronID)
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
