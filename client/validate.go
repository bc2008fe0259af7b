package client

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"go-referral-backend/internal/domain"
)

// ValidateReferral is the pre-flight validator run before any network call.
// It implements the same constraint table as the server's authoritative
// validator (pkg/validation) but shares no validation code with it; the
// contract test in pkg/validation keeps the two from drifting. All
// violations are accumulated.
func ValidateReferral(ref domain.Referral) []domain.FieldError {
	r := domain.TrimReferral(ref)

	var errs []domain.FieldError
	add := func(field, message string) {
		errs = append(errs, domain.FieldError{Field: field, Message: message})
	}

	switch {
	case r.FirstName == "":
		add("FirstName", "First name is required")
	case utf8.RuneCountInString(r.FirstName) > domain.NameMaxLen:
		add("FirstName", "First name too long")
	}

	switch {
	case r.LastName == "":
		add("LastName", "Last name is required")
	case utf8.RuneCountInString(r.LastName) > domain.NameMaxLen:
		add("LastName", "Last name too long")
	}

	switch {
	case r.Phone == "":
		add("Phone", "Phone is required")
	case !domain.PhoneRE.MatchString(r.Phone):
		add("Phone", "Invalid phone number format")
	}

	switch {
	case r.Email == "":
		add("Email", "Email is required")
	case !validEmail(r.Email):
		add("Email", "Invalid email format")
	}

	if utf8.RuneCountInString(r.Message) > domain.MessageMaxLen {
		add("Message", "Message too long")
	}

	return errs
}

// ValidateAttachment checks the declared media type and size locally. The
// server additionally sniffs the content; this check exists for fast
// feedback only.
func ValidateAttachment(att *domain.Attachment) []domain.FieldError {
	if att == nil {
		return nil
	}

	var errs []domain.FieldError
	if !domain.AllowedAttachmentTypes[att.ContentType] {
		errs = append(errs, domain.FieldError{
			Field:   "attachment",
			Message: fmt.Sprintf("invalid file type %q. Only JPEG, PNG, PDF, and TXT are allowed", att.ContentType),
		})
	}
	if len(att.Data) > domain.AttachmentMaxBytes {
		errs = append(errs, domain.FieldError{
			Field:   "attachment",
			Message: fmt.Sprintf("file exceeds the %d MB size limit", domain.AttachmentMaxBytes/(1024*1024)),
		})
	}
	return errs
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like "Jane <jane@example.com>"; the form
	// field must be a bare address.
	return addr.Address == email
}
