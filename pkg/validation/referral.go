package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"go-referral-backend/internal/domain"
	"go-referral-backend/pkg/security"
)

// FieldLabels maps struct field names to the labels used in error messages.
var FieldLabels = map[string]string{
	"FirstName": "First name",
	"LastName":  "Last name",
	"Phone":     "Phone",
	"Email":     "Email",
	"Message":   "Message",
}

// ValidateReferral is the authoritative server-side validator. It trims every
// field, applies the full constraint table and, when an attachment is
// present, the attachment rules. All violations are accumulated so the
// caller sees the complete list in one pass. The returned Referral is the
// trimmed copy that later stages must use.
func ValidateReferral(v *validator.Validate, ref domain.Referral, att *domain.Attachment) (domain.Referral, []domain.FieldError) {
	trimmed := domain.TrimReferral(ref)

	var fieldErrs []domain.FieldError
	if err := v.Struct(trimmed); err != nil {
		fieldErrs = translate(err)
	}

	if att != nil {
		if err := security.ValidateAttachment(att); err != nil {
			fieldErrs = append(fieldErrs, domain.FieldError{
				Field:   "attachment",
				Message: err.Error(),
			})
		}
	}

	return trimmed, fieldErrs
}

// translate converts validator.ValidationErrors to per-field user-facing
// messages.
func translate(err error) []domain.FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []domain.FieldError{{Field: "form", Message: err.Error()}}
	}

	out := make([]domain.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, domain.FieldError{
			Field:   e.Field(),
			Message: fieldMessage(e),
		})
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	label := fieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s too long (maximum %s characters)", label, e.Param())
	case "email":
		return "Invalid email format"
	case "referral_phone":
		return "Invalid phone number format (at least 10 digits, with or without +)"
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func fieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
