package domain

// Branch represents a physical library location.
type Branch struct {
	BranchID string `json:"branchID"` // Primary Key (UUID)
	Name     string `json:"name"`
	Address  string `json:"address"`
	AuditFields
}
