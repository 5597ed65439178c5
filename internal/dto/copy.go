package dto

import (
	"time"

	"github.com/SscSPs/library_circulation_app/internal/core/domain"
)

// CreateCopyRequest is the payload for registering a physical copy of a title.
type CreateCopyRequest struct {
	TitleID        string `json:"titleID" binding:"required"`
	Barcode        string `json:"barcode" binding:"required"`
	ItemType       string `json:"itemType" binding:"required,itemtype"`
	OwningBranchID string `json:"owningBranchID" binding:"required"`
	Condition      string `json:"condition" binding:"omitempty,copycondition"`
}

// CopyResponse defines the data returned for an item copy.
type CopyResponse struct {
	CopyID          string     `json:"copyID"`
	TitleID         string     `json:"titleID"`
	Barcode         string     `json:"barcode"`
	ItemType        string     `json:"itemType"`
	OwningBranchID  string     `json:"owningBranchID"`
	CurrentBranchID string     `json:"currentBranchID"`
	Condition       string     `json:"condition"`
	Status          string     `json:"status"`
	CheckedOutBy    *string    `json:"checkedOutBy,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
}

// ToCopyResponse converts a domain ItemCopy to its response DTO.
func ToCopyResponse(c *domain.ItemCopy) CopyResponse {
	return CopyResponse{
		CopyID:          c.CopyID,
		TitleID:         c.TitleID,
		Barcode:         c.Barcode,
		ItemType:        string(c.ItemType),
		OwningBranchID:  c.OwningBranchID,
		CurrentBranchID: c.CurrentBranchID,
		Condition:       string(c.Condition),
		Status:          string(c.Status),
		CheckedOutBy:    c.CheckedOutBy,
		DueDate:         c.DueDate,
	}
}

// ToCopyResponses converts a slice of domain ItemCopies to response DTOs.
func ToCopyResponses(cs []domain.ItemCopy) []CopyResponse {
	responses := make([]CopyResponse, len(cs))
	for i, c := range cs {
		responses[i] = ToCopyResponse(&c)
	}
	return responses
}
