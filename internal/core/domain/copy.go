package domain

import (
	"errors"
	"fmt"
	"time"
)

// CopyStatus indicates where a physical copy sits in its circulation lifecycle.
type CopyStatus string

const (
	CopyAvailable    CopyStatus = "AVAILABLE"
	CopyCheckedOut   CopyStatus = "CHECKED_OUT"
	CopyReserved     CopyStatus = "RESERVED"
	CopyUnshelved    CopyStatus = "UNSHELVED"
	CopyRenewedOnce  CopyStatus = "RENEWED_ONCE"
	CopyRenewedTwice CopyStatus = "RENEWED_TWICE"
	CopyLost         CopyStatus = "LOST"
	CopyDamaged      CopyStatus = "DAMAGED"
)

// ItemType determines which loan policy (duration, fine rate) applies to a copy.
type ItemType string

const (
	ItemBook      ItemType = "BOOK"
	ItemAudiobook ItemType = "AUDIOBOOK"
	ItemDVD       ItemType = "DVD"
	ItemMagazine  ItemType = "MAGAZINE"
)

// CopyCondition grades the physical state of a copy, recorded at every checkin.
type CopyCondition string

const (
	ConditionNew  CopyCondition = "NEW"
	ConditionGood CopyCondition = "GOOD"
	ConditionFair CopyCondition = "FAIR"
	ConditionPoor CopyCondition = "POOR"
)

// ErrIllegalTransition is returned when a copy state change is not valid from
// the copy's current status.
var ErrIllegalTransition = errors.New("illegal copy state transition")

// ErrRenewalLimitReached is returned when a loan has already been renewed twice.
var ErrRenewalLimitReached = errors.New("maximum number of renewals reached")

// InLoan reports whether the status belongs to the checked-out family.
// RenewedOnce and RenewedTwice behave as CheckedOut for queue purposes.
func (s CopyStatus) InLoan() bool {
	return s == CopyCheckedOut || s == CopyRenewedOnce || s == CopyRenewedTwice
}

// Renewals returns how many times the current loan has been renewed.
func (s CopyStatus) Renewals() int {
	switch s {
	case CopyRenewedOnce:
		return 1
	case CopyRenewedTwice:
		return 2
	default:
		return 0
	}
}

// ItemCopy represents one physical instance of a catalogued title.
//
// Invariant: CheckedOutBy and DueDate are both set or both unset, and only
// while Status is in the checked-out family.
type ItemCopy struct {
	CopyID          string        `json:"copyID"`  // Primary Key (UUID)
	TitleID         string        `json:"titleID"` // Catalogue reference, owned by the catalogue service
	Barcode         string        `json:"barcode"`
	ItemType        ItemType      `json:"itemType"`
	OwningBranchID  string        `json:"owningBranchID"`
	CurrentBranchID string        `json:"currentBranchID"`
	Condition       CopyCondition `json:"condition"`
	Status          CopyStatus    `json:"status"`
	CheckedOutBy    *string       `json:"checkedOutBy,omitempty"`
	DueDate         *time.Time    `json:"dueDate,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft remove; history rows keep referencing the copy
}

// BeginCheckout moves the copy into CheckedOut and records the loan fields.
// Legal only from Available, or from Reserved when the caller has verified the
// patron holds the ready head-of-queue reservation.
func (c *ItemCopy) BeginCheckout(patronID string, dueDate time.Time) error {
	if c.Status != CopyAvailable && c.Status != CopyReserved {
		return fmt.Errorf("%w: cannot check out copy in status %s", ErrIllegalTransition, c.Status)
	}
	c.Status = CopyCheckedOut
	c.CheckedOutBy = &patronID
	c.DueDate = &dueDate
	return nil
}

// BeginCheckin clears the loan fields, records the returned condition and the
// branch the copy now sits at. The copy lands in Reserved when a ready
// reservation is waiting for it, otherwise in Available.
func (c *ItemCopy) BeginCheckin(condition CopyCondition, branchID string, hasReadyReservation bool) error {
	if !c.Status.InLoan() {
		return fmt.Errorf("%w: cannot check in copy in status %s", ErrIllegalTransition, c.Status)
	}
	c.CheckedOutBy = nil
	c.DueDate = nil
	c.Condition = condition
	c.CurrentBranchID = branchID
	if hasReadyReservation {
		c.Status = CopyReserved
	} else {
		c.Status = CopyAvailable
	}
	return nil
}

// Renew advances the renewal sub-state and sets the new due date.
// The third renewal is reported, not silently capped.
func (c *ItemCopy) Renew(newDueDate time.Time) error {
	switch c.Status {
	case CopyCheckedOut:
		c.Status = CopyRenewedOnce
	case CopyRenewedOnce:
		c.Status = CopyRenewedTwice
	case CopyRenewedTwice:
		return ErrRenewalLimitReached
	default:
		return fmt.Errorf("%w: cannot renew copy in status %s", ErrIllegalTransition, c.Status)
	}
	c.DueDate = &newDueDate
	return nil
}

// MarkUnshelved flags a shelved copy as pulled from the shelf.
// Reserved is legal here: "reserved" means head-of-queue has first right,
// independent of where the physical item sits.
func (c *ItemCopy) MarkUnshelved() error {
	if c.Status != CopyAvailable && c.Status != CopyReserved {
		return fmt.Errorf("%w: cannot unshelve copy in status %s", ErrIllegalTransition, c.Status)
	}
	c.Status = CopyUnshelved
	return nil
}

// Reshelve returns an unshelved copy to circulation, applying the same
// ready-reservation check as checkin.
func (c *ItemCopy) Reshelve(hasReadyReservation bool) error {
	if c.Status != CopyUnshelved {
		return fmt.Errorf("%w: cannot reshelve copy in status %s", ErrIllegalTransition, c.Status)
	}
	if hasReadyReservation {
		c.Status = CopyReserved
	} else {
		c.Status = CopyAvailable
	}
	return nil
}

// MarkLost takes the copy out of circulation as lost, dropping any loan fields.
func (c *ItemCopy) MarkLost() error {
	if c.Status == CopyLost || c.Status == CopyDamaged {
		return fmt.Errorf("%w: copy already in terminal status %s", ErrIllegalTransition, c.Status)
	}
	c.Status = CopyLost
	c.CheckedOutBy = nil
	c.DueDate = nil
	return nil
}

// MarkDamaged takes the copy out of circulation as damaged, dropping any loan fields.
func (c *ItemCopy) MarkDamaged() error {
	if c.Status == CopyLost || c.Status == CopyDamaged {
		return fmt.Errorf("%w: copy already in terminal status %s", ErrIllegalTransition, c.Status)
	}
	c.Status = CopyDamaged
	c.Condition = ConditionPoor
	c.CheckedOutBy = nil
	c.DueDate = nil
	return nil
}
