package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CopyRepo        CopyRepositoryWithTx
	ReservationRepo ReservationRepositoryWithTx
	TransactionRepo CirculationTransactionRepositoryFacade
	PatronRepo      PatronRepositoryFacade
	PolicyRepo      LoanPolicyRepositoryFacade
	StaffRepo       StaffRepositoryFacade
}
