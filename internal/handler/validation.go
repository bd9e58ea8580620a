package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fakhrymubarak/weather-gateway/internal/model"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationResponse formats validation errors into the 422 body. The first
// field error becomes the top-level message.
func validationResponse(err error) model.ValidationErrorResponse {
	resp := model.ValidationErrorResponse{
		Message: "The given data was invalid.",
		Errors:  map[string][]string{},
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return resp
	}
	for i, e := range validationErrors {
		msg := validationMessage(e)
		if i == 0 {
			resp.Message = msg
		}
		resp.Errors[e.Field()] = append(resp.Errors[e.Field()], msg)
	}
	return resp
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", e.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", e.Field(), e.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", e.Field())
	}
}
