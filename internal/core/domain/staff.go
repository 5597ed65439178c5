package domain

import "time"

// StaffUser represents a library staff account allowed to drive circulation.
type StaffUser struct {
	StaffID      string `json:"staffID"` // Primary Key (UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	BranchID     string `json:"branchID"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
