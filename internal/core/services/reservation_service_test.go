package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/core/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
)

const testStaffID = "staff-1"

type reservationFixture struct {
	copyRepo        *MockCopyRepository
	reservationRepo *MockReservationRepository
	txnRepo         *MockTransactionRepository
	patronRepo      *MockPatronRepository
	svc             portssvc.ReservationSvcFacade
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		copyRepo:        new(MockCopyRepository),
		reservationRepo: new(MockReservationRepository),
		txnRepo:         new(MockTransactionRepository),
		patronRepo:      new(MockPatronRepository),
	}
	f.svc = services.NewReservationService(f.copyRepo, f.reservationRepo, f.txnRepo, f.patronRepo, services.NewEligibility(5), 3)
	return f
}

// expectTx registers the begin/rollback pair every unit of work produces; the
// deferred rollback runs even after a successful commit.
func (f *reservationFixture) expectTx() {
	f.copyRepo.On("Begin", mock.Anything).Return(nil, nil)
	f.copyRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

func (f *reservationFixture) expectCommit() {
	f.copyRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
}

func activePatron(patronID string) *domain.Patron {
	return &domain.Patron{
		PatronID:           patronID,
		IsActive:           true,
		Balance:            decimal.Zero,
		CardExpirationDate: time.Now().UTC().AddDate(1, 0, 0),
	}
}

func TestReserveAvailableCopyGoesReady(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()
	f.expectCommit()

	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyAvailable, CurrentBranchID: "branch-1"}, nil)
	f.patronRepo.On("FindPatronByID", mock.Anything, "patron-1").Return(activePatron("patron-1"), nil)
	f.reservationRepo.On("FindActiveReservationsForCopyForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return([]domain.Reservation{}, nil)

	f.copyRepo.On("UpdateCopyInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.ItemCopy) bool {
		return c.Status == domain.CopyReserved
	})).Return(nil)
	f.reservationRepo.On("InsertReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.Status == domain.ReservationReady && r.QueuePosition == 1 && r.ExpiryDate != nil
	})).Return(nil)
	f.txnRepo.On("InsertTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.CirculationTransaction) bool {
		return txn.Type == domain.TxnReservation && txn.Status == domain.TxnWaiting && txn.CopyID == "copy-1"
	})).Return(nil)

	reservation, err := f.svc.Reserve(context.Background(), dto.CreateReservationRequest{CopyID: "copy-1", PatronID: "patron-1"}, testStaffID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReservationReady, reservation.Status)
	assert.Equal(t, 1, reservation.QueuePosition)
	require.NotNil(t, reservation.ExpiryDate)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 3), *reservation.ExpiryDate, time.Minute)
	f.copyRepo.AssertExpectations(t)
	f.reservationRepo.AssertExpectations(t)
	f.txnRepo.AssertExpectations(t)
}

func TestReserveLoanedCopyJoinsTail(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()
	f.expectCommit()

	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyCheckedOut, CurrentBranchID: "branch-1"}, nil)
	f.patronRepo.On("FindPatronByID", mock.Anything, "patron-3").Return(activePatron("patron-3"), nil)
	f.reservationRepo.On("FindActiveReservationsForCopyForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return([]domain.Reservation{
			{ReservationID: "res-1", PatronID: "patron-1", Status: domain.ReservationWaiting, QueuePosition: 1},
			{ReservationID: "res-2", PatronID: "patron-2", Status: domain.ReservationWaiting, QueuePosition: 2},
		}, nil)

	f.reservationRepo.On("InsertReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.Status == domain.ReservationWaiting && r.QueuePosition == 3 && r.ExpiryDate == nil
	})).Return(nil)
	f.txnRepo.On("InsertTransactionInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	reservation, err := f.svc.Reserve(context.Background(), dto.CreateReservationRequest{CopyID: "copy-1", PatronID: "patron-3"}, testStaffID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReservationWaiting, reservation.Status)
	assert.Equal(t, 3, reservation.QueuePosition)
	// Someone is ahead, so the copy's status does not change.
	f.copyRepo.AssertNotCalled(t, "UpdateCopyInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveDuplicateRejected(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()

	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyCheckedOut}, nil)
	f.patronRepo.On("FindPatronByID", mock.Anything, "patron-1").Return(activePatron("patron-1"), nil)
	f.reservationRepo.On("FindActiveReservationsForCopyForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return([]domain.Reservation{
			{ReservationID: "res-1", PatronID: "patron-1", Status: domain.ReservationWaiting, QueuePosition: 1},
		}, nil)

	_, err := f.svc.Reserve(context.Background(), dto.CreateReservationRequest{CopyID: "copy-1", PatronID: "patron-1"}, testStaffID)

	assert.ErrorIs(t, err, services.ErrDuplicateReservation)
	f.reservationRepo.AssertNotCalled(t, "InsertReservationInTx", mock.Anything, mock.Anything, mock.Anything)
	f.copyRepo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestReserveRetiredCopyRejected(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()

	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyLost}, nil)

	_, err := f.svc.Reserve(context.Background(), dto.CreateReservationRequest{CopyID: "copy-1", PatronID: "patron-1"}, testStaffID)

	assert.ErrorIs(t, err, services.ErrCopyNotCirculating)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCancelWaitingEntryClosesGap(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()
	f.expectCommit()

	cancelled := &domain.Reservation{
		ReservationID: "res-2", CopyID: "copy-1", PatronID: "patron-2",
		Status: domain.ReservationWaiting, QueuePosition: 2,
	}
	f.reservationRepo.On("FindReservationByIDForUpdate", mock.Anything, mock.Anything, "res-2").Return(cancelled, nil)
	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyCheckedOut}, nil)
	f.reservationRepo.On("FindActiveReservationsForCopyForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return([]domain.Reservation{
			{ReservationID: "res-1", PatronID: "patron-1", Status: domain.ReservationWaiting, QueuePosition: 1},
			*cancelled,
			{ReservationID: "res-3", PatronID: "patron-3", Status: domain.ReservationWaiting, QueuePosition: 3},
		}, nil)

	f.reservationRepo.On("UpdateReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.ReservationID == "res-2" && r.Status == domain.ReservationCancelled
	})).Return(nil)
	f.reservationRepo.On("UpdateReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.ReservationID == "res-3" && r.QueuePosition == 2 && r.Status == domain.ReservationWaiting
	})).Return(nil)

	ledgerEntry := &domain.CirculationTransaction{TransactionID: "txn-1", Type: domain.TxnReservation, Status: domain.TxnWaiting}
	f.txnRepo.On("FindOpenReservationEntryInTx", mock.Anything, mock.Anything, "copy-1", "patron-2").Return(ledgerEntry, nil)
	f.txnRepo.On("UpdateTransactionInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.CirculationTransaction) bool {
		return txn.TransactionID == "txn-1" && txn.Status == domain.TxnCompleted
	})).Return(nil)

	resp, err := f.svc.Cancel(context.Background(), "res-2", testStaffID)

	require.NoError(t, err)
	assert.Equal(t, "res-2", resp.ReservationID)
	assert.Nil(t, resp.PromotedPatronID)
	f.reservationRepo.AssertExpectations(t)
	f.txnRepo.AssertExpectations(t)
	// The head kept position 1 and needed no write.
	f.reservationRepo.AssertNumberOfCalls(t, "UpdateReservationInTx", 2)
}

func TestCancelReadyHeadPromotesSuccessor(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()
	f.expectCommit()

	head := &domain.Reservation{
		ReservationID: "res-1", CopyID: "copy-1", PatronID: "patron-1",
		Status: domain.ReservationReady, QueuePosition: 1,
	}
	f.reservationRepo.On("FindReservationByIDForUpdate", mock.Anything, mock.Anything, "res-1").Return(head, nil)
	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyReserved}, nil)
	f.reservationRepo.On("FindActiveReservationsForCopyForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return([]domain.Reservation{
			*head,
			{ReservationID: "res-2", CopyID: "copy-1", PatronID: "patron-2", Status: domain.ReservationWaiting, QueuePosition: 2},
		}, nil)

	f.reservationRepo.On("UpdateReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.ReservationID == "res-1" && r.Status == domain.ReservationCancelled
	})).Return(nil)
	f.reservationRepo.On("UpdateReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.ReservationID == "res-2" && r.QueuePosition == 1 && r.Status == domain.ReservationWaiting
	})).Return(nil)
	f.reservationRepo.On("UpdateReservationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Reservation) bool {
		return r.ReservationID == "res-2" && r.Status == domain.ReservationReady && r.ExpiryDate != nil
	})).Return(nil)
	f.txnRepo.On("FindOpenReservationEntryInTx", mock.Anything, mock.Anything, "copy-1", "patron-1").
		Return(nil, apperrors.NewNotFoundError("no open reservation entry"))

	resp, err := f.svc.Cancel(context.Background(), "res-1", testStaffID)

	require.NoError(t, err)
	require.NotNil(t, resp.PromotedPatronID)
	assert.Equal(t, "patron-2", *resp.PromotedPatronID)
	// The copy stays RESERVED, now held for the promoted patron.
	f.copyRepo.AssertNotCalled(t, "UpdateCopyInTx", mock.Anything, mock.Anything, mock.Anything)
	f.reservationRepo.AssertExpectations(t)
}

func TestCancelLastReadyEntryFreesCopy(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()
	f.expectCommit()

	head := &domain.Reservation{
		ReservationID: "res-1", CopyID: "copy-1", PatronID: "patron-1",
		Status: domain.ReservationReady, QueuePosition: 1,
	}
	f.reservationRepo.On("FindReservationByIDForUpdate", mock.Anything, mock.Anything, "res-1").Return(head, nil)
	f.copyRepo.On("FindCopyByIDForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyReserved}, nil)
	f.reservationRepo.On("FindActiveReservationsForCopyForUpdate", mock.Anything, mock.Anything, "copy-1").
		Return([]domain.Reservation{*head}, nil)

	f.reservationRepo.On("UpdateReservationInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.copyRepo.On("UpdateCopyInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.ItemCopy) bool {
		return c.Status == domain.CopyAvailable
	})).Return(nil)
	f.txnRepo.On("FindOpenReservationEntryInTx", mock.Anything, mock.Anything, "copy-1", "patron-1").
		Return(nil, apperrors.NewNotFoundError("no open reservation entry"))

	resp, err := f.svc.Cancel(context.Background(), "res-1", testStaffID)

	require.NoError(t, err)
	assert.Nil(t, resp.PromotedPatronID)
	assert.Equal(t, string(domain.CopyAvailable), resp.CopyStatus)
	f.copyRepo.AssertExpectations(t)
}

func TestCancelClosedReservationRejected(t *testing.T) {
	f := newReservationFixture()
	f.expectTx()

	f.reservationRepo.On("FindReservationByIDForUpdate", mock.Anything, mock.Anything, "res-1").
		Return(&domain.Reservation{ReservationID: "res-1", Status: domain.ReservationFulfilled}, nil)

	_, err := f.svc.Cancel(context.Background(), "res-1", testStaffID)

	assert.ErrorIs(t, err, services.ErrReservationClosed)
	f.reservationRepo.AssertNotCalled(t, "UpdateReservationInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetQueue(t *testing.T) {
	f := newReservationFixture()

	f.copyRepo.On("FindCopyByID", mock.Anything, "copy-1").
		Return(&domain.ItemCopy{CopyID: "copy-1", Status: domain.CopyCheckedOut}, nil)
	f.reservationRepo.On("FindActiveReservationsForCopy", mock.Anything, "copy-1").
		Return([]domain.Reservation{
			{ReservationID: "res-1", QueuePosition: 1},
			{ReservationID: "res-2", QueuePosition: 2},
		}, nil)

	queue, err := f.svc.GetQueue(context.Background(), "copy-1")

	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, 1, queue[0].QueuePosition)
}

func TestGetQueueUnknownCopy(t *testing.T) {
	f := newReservationFixture()

	f.copyRepo.On("FindCopyByID", mock.Anything, "nope").
		Return(nil, apperrors.NewNotFoundError("copy not found"))

	_, err := f.svc.GetQueue(context.Background(), "nope")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.reservationRepo.AssertNotCalled(t, "FindActiveReservationsForCopy", mock.Anything, mock.Anything)
}
