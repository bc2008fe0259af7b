package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Referral represents one incoming referral submission. It is request-scoped:
// built from the multipart form, validated, mapped to a store record, and
// discarded. It is never persisted locally.
type Referral struct {
	FirstName string `form:"FirstName" json:"FirstName" validate:"required,min=1,max=50"`
	LastName  string `form:"LastName" json:"LastName" validate:"required,min=1,max=50"`
	Phone     string `form:"Phone" json:"Phone" validate:"required,referral_phone"`
	Email     string `form:"Email" json:"Email" validate:"required,email"`
	Message   string `form:"Message" json:"Message" validate:"max=1000"`
}

// Attachment is an optional uploaded file accompanying a referral.
// ContentType is the declared media type; the validator additionally sniffs
// the bytes, so the declaration alone is never trusted.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Constraint table. Both validator implementations (pkg/validation on the
// server, package client before transmission) are driven from these values;
// the contract test in pkg/validation runs both against ContractFixtures.
const (
	NameMaxLen         = 50
	MessageMaxLen      = 1000
	PhoneMinLen        = 10
	AttachmentMaxBytes = 5 * 1024 * 1024
)

// PhoneRE accepts an optional leading "+" followed by at least PhoneMinLen
// digits, spaces, hyphens or parentheses.
var PhoneRE = regexp.MustCompile(`^\+?[\s\-()0-9]{10,}$`)

// AllowedAttachmentTypes is the declared-media-type allow-list for uploads.
var AllowedAttachmentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
	"text/plain":      true,
}

// TrimReferral returns a copy with leading/trailing whitespace removed from
// every field. Both validators trim before applying length/format checks.
func TrimReferral(r Referral) Referral {
	return Referral{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Phone:     strings.TrimSpace(r.Phone),
		Email:     strings.TrimSpace(r.Email),
		Message:   strings.TrimSpace(r.Message),
	}
}

// FieldError is a single validation violation attributed to one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in one validate call.
// Violations are accumulated, never short-circuited, so the caller sees the
// complete list at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ErrDuplicate is returned when the store already holds a record with the
// submitted email. A business-rule conflict, not a system failure.
var ErrDuplicate = fmt.Errorf("a referral with this email already exists")

// AttachmentError indicates the uploaded file could not be read or encoded.
type AttachmentError struct {
	Err error
}

func (e *AttachmentError) Error() string {
	return "failed to process attachment: " + e.Err.Error()
}

func (e *AttachmentError) Unwrap() error { return e.Err }

// StoreError wraps a transport or external-store failure. Treated as
// transient; surfaced to callers with a generic message outside development
// mode.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// SubmitResult is the success outcome of a referral submission.
type SubmitResult struct {
	RecordID string `json:"recordId"`
}

// ReferralStore is the outbound contract to the external tabular store: one
// create call and one filtered-query call, nothing else. Implemented by
// repository/airtable; mocked in usecase tests.
type ReferralStore interface {
	// CreateRecord writes the mapped field set and returns the
	// store-assigned record ID.
	CreateRecord(ctx context.Context, fields map[string]any) (string, error)
	// FindByEmail reports whether a record with exactly this email exists.
	FindByEmail(ctx context.Context, email string) (bool, error)
	// Ping checks store reachability.
	Ping(ctx context.Context) error
}

// ReferralUsecase defines the submission pipeline.
type ReferralUsecase interface {
	// Submit runs validate -> duplicate check -> attachment encode ->
	// create. attachment may be nil.
	Submit(ctx context.Context, ref *Referral, attachment *Attachment) (*SubmitResult, error)
	// CheckStore probes external-store connectivity.
	CheckStore(ctx context.Context) error
}
