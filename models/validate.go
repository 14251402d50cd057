package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

var validate = validator.New()

// validateInput runs struct tag validation and converts the first failure
// into a ValidationError with the offending field name.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return utils.NewValidationError(strings.ToLower(fe.Field()), "failed on rule "+fe.Tag())
	}
	return err
}
