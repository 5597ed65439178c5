package models

import "time"

// StaffUser is the database row shape for a staff account.
type StaffUser struct {
	StaffID      string `db:"staff_id"`
	Username     string `db:"username"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	BranchID     string `db:"branch_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
