package dto

import (
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs the binding validators the request DTOs
// reference in their tags.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("itemtype", validItemType); err != nil {
		return err
	}
	return v.RegisterValidation("copycondition", validCopyCondition)
}

func validItemType(fl validator.FieldLevel) bool {
	switch domain.ItemType(fl.Field().String()) {
	case domain.ItemBook, domain.ItemAudiobook, domain.ItemDVD, domain.ItemMagazine:
		return true
	}
	return false
}

func validCopyCondition(fl validator.FieldLevel) bool {
	switch domain.CopyCondition(fl.Field().String()) {
	case domain.ConditionNew, domain.ConditionGood, domain.ConditionFair, domain.ConditionPoor:
		return true
	}
	return false
}
