package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/blog-service/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags and reports the first failing field as an ApiErr
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errs.NewInvalidFieldError(fe.Field(), describeTag(fe))
	}
	return errs.NewBadRequestError(err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
