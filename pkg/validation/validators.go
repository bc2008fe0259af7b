package validation

import (
	"github.com/go-playground/validator/v10"

	"go-referral-backend/internal/domain"
)

// New returns a validator instance with the referral validators registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("referral_phone", ReferralPhone)
}

// ReferralPhone validates a phone number structure: optional leading +, then
// digits, spaces, hyphens or parentheses, at least ten characters.
func ReferralPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // required is checked separately
	}
	return domain.PhoneRE.MatchString(val)
}
