package checkout

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Algerian phone numbers: a leading zero followed by 8 digits (landline,
// e.g. 0[2|3]X XX XX XX) or 9 digits (mobile, e.g. 0[5|6|7]XX XX XX XX).
var phonePattern = regexp.MustCompile(`^0[0-9]{8,9}$`)

// ValidPhone reports whether s is an acceptable Algerian phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// RegisterPhoneValidation adds the "dzphone" rule to a validator instance,
// for request DTOs that carry a phone field.
func RegisterPhoneValidation(v *validator.Validate) error {
	return v.RegisterValidation("dzphone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}
