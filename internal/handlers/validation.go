// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a request field to its list of human-readable messages.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// newValidator builds a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors translates validator errors into per-field message lists.
func fieldErrors(err error) FieldErrors {
	out := FieldErrors{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("non_field_errors", "Invalid request body!")
		return out
	}

	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Enter a valid email address!"
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters!", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters!", fe.Param())
	default:
		return "This field is invalid!"
	}
}
