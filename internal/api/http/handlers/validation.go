package handlers

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/tickease/tickease/pkg/util"
)

var validate = validator.New()

// validateStruct runs tag-based validation and maps failures to a 400.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	details := map[string]any{}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("invalid payload", details)
}
