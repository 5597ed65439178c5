package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock CopyRepository ---
type MockCopyRepository struct {
	mock.Mock
}

// Ensure MockCopyRepository implements portsrepo.CopyRepositoryWithTx
var _ portsrepo.CopyRepositoryWithTx = (*MockCopyRepository)(nil)

func (m *MockCopyRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockCopyRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCopyRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCopyRepository) FindCopyByID(ctx context.Context, copyID string) (*domain.ItemCopy, error) {
	args := m.Called(ctx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemCopy), args.Error(1)
}

func (m *MockCopyRepository) FindCopyByIDForUpdate(ctx context.Context, tx pgx.Tx, copyID string) (*domain.ItemCopy, error) {
	args := m.Called(ctx, tx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemCopy), args.Error(1)
}

func (m *MockCopyRepository) ListCopiesByTitle(ctx context.Context, titleID string) ([]domain.ItemCopy, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemCopy), args.Error(1)
}

func (m *MockCopyRepository) SaveCopy(ctx context.Context, copy domain.ItemCopy) error {
	args := m.Called(ctx, copy)
	return args.Error(0)
}

func (m *MockCopyRepository) UpdateCopyInTx(ctx context.Context, tx pgx.Tx, copy domain.ItemCopy) error {
	args := m.Called(ctx, tx, copy)
	return args.Error(0)
}

func (m *MockCopyRepository) SoftRemoveCopy(ctx context.Context, copyID string, removedBy string, removedAt time.Time) error {
	args := m.Called(ctx, copyID, removedBy, removedAt)
	return args.Error(0)
}

// --- Mock ReservationRepository ---
type MockReservationRepository struct {
	mock.Mock
}

// Ensure MockReservationRepository implements portsrepo.ReservationRepositoryFacade
var _ portsrepo.ReservationRepositoryFacade = (*MockReservationRepository)(nil)

func (m *MockReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindReservationByIDForUpdate(ctx context.Context, tx pgx.Tx, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, tx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveReservationsForCopy(ctx context.Context, copyID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindActiveReservationsForCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, tx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListReservationsByPatron(ctx context.Context, patronID string) ([]domain.Reservation, error) {
	args := m.Called(ctx, patronID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) InsertReservationInTx(ctx context.Context, tx pgx.Tx, reservation domain.Reservation) error {
	args := m.Called(ctx, tx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateReservationInTx(ctx context.Context, tx pgx.Tx, reservation domain.Reservation) error {
	args := m.Called(ctx, tx, reservation)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements the ledger facade
var _ portsrepo.CirculationTransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.CirculationTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CirculationTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.CirculationTransaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CirculationTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindActiveLoanForCopyInTx(ctx context.Context, tx pgx.Tx, copyID string) (*domain.CirculationTransaction, error) {
	args := m.Called(ctx, tx, copyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CirculationTransaction), args.Error(1)
}

func (m *MockTransactionRepository) CountActiveLoansForPatronInTx(ctx context.Context, tx pgx.Tx, patronID string) (int, error) {
	args := m.Called(ctx, tx, patronID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) FindOpenReservationEntryInTx(ctx context.Context, tx pgx.Tx, copyID string, patronID string) (*domain.CirculationTransaction, error) {
	args := m.Called(ctx, tx, copyID, patronID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CirculationTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByPatron(ctx context.Context, patronID string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error) {
	args := m.Called(ctx, patronID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.CirculationTransaction), returnedToken, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByCopy(ctx context.Context, copyID string, limit int, nextToken *string) ([]domain.CirculationTransaction, *string, error) {
	args := m.Called(ctx, copyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.CirculationTransaction), returnedToken, args.Error(2)
}

func (m *MockTransactionRepository) InsertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.CirculationTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.CirculationTransaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

// --- Mock PatronRepository ---
type MockPatronRepository struct {
	mock.Mock
}

// Ensure MockPatronRepository implements portsrepo.PatronRepositoryFacade
var _ portsrepo.PatronRepositoryFacade = (*MockPatronRepository)(nil)

func (m *MockPatronRepository) FindPatronByID(ctx context.Context, patronID string) (*domain.Patron, error) {
	args := m.Called(ctx, patronID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}

func (m *MockPatronRepository) FindPatronByIDForUpdate(ctx context.Context, tx pgx.Tx, patronID string) (*domain.Patron, error) {
	args := m.Called(ctx, tx, patronID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}

func (m *MockPatronRepository) ListPatrons(ctx context.Context, limit int, offset int) ([]domain.Patron, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Patron), args.Error(1)
}

func (m *MockPatronRepository) SavePatron(ctx context.Context, patron domain.Patron) error {
	args := m.Called(ctx, patron)
	return args.Error(0)
}

func (m *MockPatronRepository) UpdatePatron(ctx context.Context, patron domain.Patron) error {
	args := m.Called(ctx, patron)
	return args.Error(0)
}

func (m *MockPatronRepository) UpdatePatronBalanceInTx(ctx context.Context, tx pgx.Tx, patronID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, patronID, balance, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPatronRepository) SoftDeletePatron(ctx context.Context, patronID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, patronID, deletedBy, deletedAt)
	return args.Error(0)
}

// --- Mock LoanPolicyRepository ---
type MockLoanPolicyRepository struct {
	mock.Mock
}

// Ensure MockLoanPolicyRepository implements portsrepo.LoanPolicyRepositoryFacade
var _ portsrepo.LoanPolicyRepositoryFacade = (*MockLoanPolicyRepository)(nil)

func (m *MockLoanPolicyRepository) FindLoanPolicy(ctx context.Context, itemType domain.ItemType) (*domain.LoanPolicy, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanPolicy), args.Error(1)
}

func (m *MockLoanPolicyRepository) ListLoanPolicies(ctx context.Context) ([]domain.LoanPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanPolicy), args.Error(1)
}

func (m *MockLoanPolicyRepository) SaveLoanPolicy(ctx context.Context, policy domain.LoanPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

// --- Mock StaffRepository ---
type MockStaffRepository struct {
	mock.Mock
}

// Ensure MockStaffRepository implements portsrepo.StaffRepositoryFacade
var _ portsrepo.StaffRepositoryFacade = (*MockStaffRepository)(nil)

func (m *MockStaffRepository) FindStaffByUsername(ctx context.Context, username string) (*domain.StaffUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}

func (m *MockStaffRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.StaffUser, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}

func (m *MockStaffRepository) SaveStaff(ctx context.Context, staff domain.StaffUser) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}
