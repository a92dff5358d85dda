package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/paibudget/budget-service/internal/common"
)

// User-facing validation messages.
const (
	MsgNoData        = "No data provided"
	MsgMissingData   = "Missing data. Required: title, amount, category, type, date"
	MsgInvalidAmount = "Amount must be a positive number"
	MsgInvalidType   = `Type must be "income" or "expense"`
	MsgInvalidDate   = "Invalid date format. Use ISO 8601 (e.g., 2023-10-26T14:30:00)"
	MsgTooLong       = "Title must be at most 100 characters and category at most 50"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct's validate tags and returns a
// *common.ValidationError describing every failed rule, or nil.
func ValidateStruct(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.NewValidationError(err.Error())
	}

	details := make([]common.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, common.FieldError{
			Field:   fe.Field(),
			Message: getErrorMsg(fe),
			Type:    fe.Tag(),
		})
	}
	return common.NewValidationError(summarize(details), details...)
}

func getErrorMsg(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Value is too long (max " + err.Param() + " characters)"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "oneof":
		return "Value must be one of: " + err.Param()
	default:
		return "Invalid value"
	}
}

// summarize picks the top-level message. Missing fields win over a bad
// amount, which wins over a bad type, which wins over length limits.
func summarize(details []common.FieldError) string {
	priority := []struct {
		tag string
		msg string
	}{
		{"required", MsgMissingData},
		{"gt", MsgInvalidAmount},
		{"oneof", MsgInvalidType},
		{"max", MsgTooLong},
	}
	for _, p := range priority {
		for _, d := range details {
			if d.Type == p.tag {
				return p.msg
			}
		}
	}
	return "Invalid request data"
}

func missingDataError(field string) error {
	return common.NewValidationError(MsgMissingData, common.FieldError{
		Field:   field,
		Message: "This field is required",
		Type:    "required",
	})
}

// InvalidDateError is the validation error returned for unparseable dates.
func InvalidDateError() error {
	return common.NewValidationError(MsgInvalidDate, common.FieldError{
		Field:   "date",
		Message: "Value must be an ISO 8601 date-time",
		Type:    "datetime",
	})
}
