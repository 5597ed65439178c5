package mapping

import (
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/SscSPs/library_circulation_app/internal/models"
)

// ToModelCopy converts a domain ItemCopy to a model ItemCopy
func ToModelCopy(d domain.ItemCopy) models.ItemCopy {
	return models.ItemCopy{
		CopyID:          d.CopyID,
		TitleID:         d.TitleID,
		Barcode:         d.Barcode,
		ItemType:        string(d.ItemType),
		OwningBranchID:  d.OwningBranchID,
		CurrentBranchID: d.CurrentBranchID,
		Condition:       string(d.Condition),
		Status:          models.CopyStatus(d.Status),
		CheckedOutBy:    d.CheckedOutBy,
		DueDate:         d.DueDate,
		AuditFields:     toModelAudit(d.AuditFields),
		DeletedAt:       d.DeletedAt,
	}
}

// ToDomainCopy converts a model ItemCopy to a domain ItemCopy
func ToDomainCopy(m models.ItemCopy) domain.ItemCopy {
	return domain.ItemCopy{
		CopyID:          m.CopyID,
		TitleID:         m.TitleID,
		Barcode:         m.Barcode,
		ItemType:        domain.ItemType(m.ItemType),
		OwningBranchID:  m.OwningBranchID,
		CurrentBranchID: m.CurrentBranchID,
		Condition:       domain.CopyCondition(m.Condition),
		Status:          domain.CopyStatus(m.Status),
		CheckedOutBy:    m.CheckedOutBy,
		DueDate:         m.DueDate,
		AuditFields:     toDomainAudit(m.AuditFields),
		DeletedAt:       m.DeletedAt,
	}
}

// ToModelReservation converts a domain Reservation to a model Reservation
func ToModelReservation(d domain.Reservation) models.Reservation {
	return models.Reservation{
		ReservationID:   d.ReservationID,
		CopyID:          d.CopyID,
		PatronID:        d.PatronID,
		ReservationDate: d.ReservationDate,
		ExpiryDate:      d.ExpiryDate,
		Status:          string(d.Status),
		QueuePosition:   d.QueuePosition,
		FulfillmentDate: d.FulfillmentDate,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

// ToDomainReservation converts a model Reservation to a domain Reservation
func ToDomainReservation(m models.Reservation) domain.Reservation {
	return domain.Reservation{
		ReservationID:   m.ReservationID,
		CopyID:          m.CopyID,
		PatronID:        m.PatronID,
		ReservationDate: m.ReservationDate,
		ExpiryDate:      m.ExpiryDate,
		Status:          domain.ReservationStatus(m.Status),
		QueuePosition:   m.QueuePosition,
		FulfillmentDate: m.FulfillmentDate,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

// ToDomainReservationSlice converts a slice of model Reservations to domain Reservations
func ToDomainReservationSlice(ms []models.Reservation) []domain.Reservation {
	ds := make([]domain.Reservation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReservation(m)
	}
	return ds
}

// ToModelTransaction converts a domain CirculationTransaction to its model shape
func ToModelTransaction(d domain.CirculationTransaction) models.CirculationTransaction {
	return models.CirculationTransaction{
		TransactionID: d.TransactionID,
		CopyID:        d.CopyID,
		PatronID:      d.PatronID,
		BranchID:      d.BranchID,
		Type:          string(d.Type),
		Status:        string(d.Status),
		CheckoutDate:  d.CheckoutDate,
		DueDate:       d.DueDate,
		ReturnDate:    d.ReturnDate,
		FineAmount:    d.FineAmount,
		Notes:         d.Notes,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToDomainTransaction converts a model CirculationTransaction to its domain shape
func ToDomainTransaction(m models.CirculationTransaction) domain.CirculationTransaction {
	return domain.CirculationTransaction{
		TransactionID: m.TransactionID,
		CopyID:        m.CopyID,
		PatronID:      m.PatronID,
		BranchID:      m.BranchID,
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		CheckoutDate:  m.CheckoutDate,
		DueDate:       m.DueDate,
		ReturnDate:    m.ReturnDate,
		FineAmount:    m.FineAmount,
		Notes:         m.Notes,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model transactions to domain transactions
func ToDomainTransactionSlice(ms []models.CirculationTransaction) []domain.CirculationTransaction {
	ds := make([]domain.CirculationTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelPatron converts a domain Patron to a model Patron
func ToModelPatron(d domain.Patron) models.Patron {
	return models.Patron{
		PatronID:           d.PatronID,
		Name:               d.Name,
		Email:              d.Email,
		IsActive:           d.IsActive,
		Balance:            d.Balance,
		CardExpirationDate: d.CardExpirationDate,
		HomeBranchID:       d.HomeBranchID,
		AuditFields:        toModelAudit(d.AuditFields),
		DeletedAt:          d.DeletedAt,
	}
}

// ToDomainPatron converts a model Patron to a domain Patron
func ToDomainPatron(m models.Patron) domain.Patron {
	return domain.Patron{
		PatronID:           m.PatronID,
		Name:               m.Name,
		Email:              m.Email,
		IsActive:           m.IsActive,
		Balance:            m.Balance,
		CardExpirationDate: m.CardExpirationDate,
		HomeBranchID:       m.HomeBranchID,
		AuditFields:        toDomainAudit(m.AuditFields),
		DeletedAt:          m.DeletedAt,
	}
}

// ToDomainPatronSlice converts a slice of model Patrons to domain Patrons
func ToDomainPatronSlice(ms []models.Patron) []domain.Patron {
	ds := make([]domain.Patron, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPatron(m)
	}
	return ds
}

// ToDomainLoanPolicy converts a model LoanPolicy to a domain LoanPolicy
func ToDomainLoanPolicy(m models.LoanPolicy) domain.LoanPolicy {
	return domain.LoanPolicy{
		ItemType:      domain.ItemType(m.ItemType),
		LoanDays:      m.LoanDays,
		DailyFineRate: m.DailyFineRate,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToModelLoanPolicy converts a domain LoanPolicy to a model LoanPolicy
func ToModelLoanPolicy(d domain.LoanPolicy) models.LoanPolicy {
	return models.LoanPolicy{
		ItemType:      string(d.ItemType),
		LoanDays:      d.LoanDays,
		DailyFineRate: d.DailyFineRate,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToDomainStaffUser converts a model StaffUser to a domain StaffUser
func ToDomainStaffUser(m models.StaffUser) domain.StaffUser {
	return domain.StaffUser{
		StaffID:      m.StaffID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		BranchID:     m.BranchID,
		AuditFields:  toDomainAudit(m.AuditFields),
		DeletedAt:    m.DeletedAt,
	}
}

func toModelAudit(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}

func toDomainAudit(a models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}
