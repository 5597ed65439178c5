package pgsql

import (
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CopyRepo:        newPgxCopyRepository(dbPool),
		ReservationRepo: newPgxReservationRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		PatronRepo:      newPgxPatronRepository(dbPool),
		PolicyRepo:      newPgxLoanPolicyRepository(dbPool),
		StaffRepo:       newPgxStaffRepository(dbPool),
	}
}
