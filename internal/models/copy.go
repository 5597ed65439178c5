package models

import "time"

// CopyStatus mirrors domain.CopyStatus at the storage layer.
type CopyStatus string

// ItemCopy is the database row shape for one physical copy.
type ItemCopy struct {
	CopyID          string     `db:"copy_id"`
	TitleID         string     `db:"title_id"`
	Barcode         string     `db:"barcode"`
	ItemType        string     `db:"item_type"`
	OwningBranchID  string     `db:"owning_branch_id"`
	CurrentBranchID string     `db:"current_branch_id"`
	Condition       string     `db:"condition"`
	Status          CopyStatus `db:"status"`
	CheckedOutBy    *string    `db:"checked_out_by"`
	DueDate         *time.Time `db:"due_date"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
