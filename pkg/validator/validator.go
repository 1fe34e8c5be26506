package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/laptime"
)

// Register adds the custom rules used by the request DTOs to gin's validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("laptime", func(fl validator.FieldLevel) bool {
		return laptime.Valid(fl.Field().String())
	})
}

// BindError converts a gin binding error into a validation AppError.
func BindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			details[fe.Field()] = getFieldErrorMessage(fe)
		}
		return apperror.Validation(FormatValidationError(err), details)
	}
	return apperror.Validation("invalid request body", nil)
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "laptime":
		return fmt.Sprintf("%s must look like HH:MM:SS.mmm", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":      "Name",
		"FirstName": "First name",
		"LastName":  "Last name",
		"Username":  "Username",
		"Password":  "Password",
		"Managers":  "Managers",
		"Laps":      "Laps",
		"Class":     "Class",
		"Time":      "Time",
		"ID":        "Id",
		"RaceID":    "Race id",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
