package services

import (
	portsrepo "github.com/SscSPs/library_circulation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/platform/config"
)

// ServiceContainer holds all the service facades the HTTP layer depends on.
type ServiceContainer struct {
	CirculationSvc portssvc.CirculationSvcFacade
	ReservationSvc portssvc.ReservationSvcFacade
	CopySvc        portssvc.CopySvcFacade
	PatronSvc      portssvc.PatronSvcFacade
	PolicySvc      portssvc.LoanPolicySvcFacade
	AuthSvc        portssvc.AuthSvcFacade
}

// NewServiceContainer wires every service with its repositories and the
// configured circulation parameters.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.AppConfig) *ServiceContainer {
	eligibility := NewEligibility(cfg.CheckoutLimit)
	holdDays := cfg.ReservationHoldDays

	return &ServiceContainer{
		CirculationSvc: NewCirculationService(repos.CopyRepo, repos.ReservationRepo, repos.TransactionRepo, repos.PatronRepo, repos.PolicyRepo, eligibility, holdDays),
		ReservationSvc: NewReservationService(repos.CopyRepo, repos.ReservationRepo, repos.TransactionRepo, repos.PatronRepo, eligibility, holdDays),
		CopySvc:        NewCopyService(repos.CopyRepo),
		PatronSvc:      NewPatronService(repos.PatronRepo),
		PolicySvc:      NewLoanPolicyService(repos.PolicyRepo),
		AuthSvc:        NewAuthService(repos.StaffRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
	}
}
