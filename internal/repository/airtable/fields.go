package airtable

import (
	"encoding/base64"
	"time"

	"go-referral-backend/internal/domain"
)

// fieldMap is the single source of truth mapping submission attributes to
// the store's column names. A schema change on the Airtable side is an edit
// to this table, not a code fork.
var fieldMap = struct {
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	Message        string
	SubmissionDate string
	Attachments    string
}{
	FirstName:      "First Name",
	LastName:       "Last Name",
	Phone:          "Phone",
	Email:          "Email",
	Message:        "Message",
	SubmissionDate: "Submission Date",
	Attachments:    "Attachments",
}

// AttachmentField is the store's attachment object shape. URL carries the
// file inline as a data URL; no object storage is involved.
type AttachmentField struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// RecordFields translates a validated referral into the store's field set.
// Pure: the submission timestamp comes from the caller-supplied now (the
// server clock, never the client) and absent optional fields are omitted
// entirely so the store's own defaulting applies.
func RecordFields(ref domain.Referral, att *domain.Attachment, now time.Time) map[string]any {
	fields := map[string]any{
		fieldMap.FirstName:      ref.FirstName,
		fieldMap.LastName:       ref.LastName,
		fieldMap.Phone:          ref.Phone,
		fieldMap.Email:          ref.Email,
		fieldMap.SubmissionDate: now.UTC().Format(time.RFC3339),
	}

	if ref.Message != "" {
		fields[fieldMap.Message] = ref.Message
	}

	if att != nil {
		fields[fieldMap.Attachments] = []AttachmentField{EncodeAttachment(att)}
	}

	return fields
}

// EncodeAttachment embeds the file content in a data URL
// (data:<mediaType>;base64,<payload>). Decoding the payload yields the
// original bytes unchanged.
func EncodeAttachment(att *domain.Attachment) AttachmentField {
	return AttachmentField{
		Filename: att.Filename,
		URL:      "data:" + att.ContentType + ";base64," + base64.StdEncoding.EncodeToString(att.Data),
	}
}
