package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rbenali/kahina/internal/checkout"
)

// NewValidator builds the request validator: field names come from json tags
// so error maps match the wire format, and the Algerian phone rule is
// registered as "dzphone".
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := checkout.RegisterPhoneValidation(v); err != nil {
		return nil, err
	}
	return v, nil
}
