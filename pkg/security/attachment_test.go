package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-referral-backend/internal/domain"
	"go-referral-backend/pkg/security"
)

var (
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	pngBytes  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	pdfBytes  = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
)

func TestValidateAttachmentAllowedTypes(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		data        []byte
	}{
		{"jpeg", "image/jpeg", jpegBytes},
		{"png", "image/png", pngBytes},
		{"pdf", "application/pdf", pdfBytes},
		{"plain text", "text/plain", []byte("hello, this is a referral note")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			att := &domain.Attachment{Filename: "f", ContentType: tc.contentType, Data: tc.data}
			assert.NoError(t, security.ValidateAttachment(att))
		})
	}
}

func TestValidateAttachmentRejectsDisallowedType(t *testing.T) {
	att := &domain.Attachment{
		Filename:    "evil.exe",
		ContentType: "application/x-msdownload",
		Data:        []byte{0x4D, 0x5A, 0x90, 0x00},
	}
	err := security.ValidateAttachment(att)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only JPEG, PNG, PDF, and TXT are allowed")
}

func TestValidateAttachmentRejectsOversize(t *testing.T) {
	data := make([]byte, domain.AttachmentMaxBytes+1)
	copy(data, jpegBytes)
	att := &domain.Attachment{Filename: "big.jpg", ContentType: "image/jpeg", Data: data}

	err := security.ValidateAttachment(att)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")
}

func TestValidateAttachmentAcceptsExactLimit(t *testing.T) {
	data := make([]byte, domain.AttachmentMaxBytes)
	copy(data, jpegBytes)
	att := &domain.Attachment{Filename: "exact.jpg", ContentType: "image/jpeg", Data: data}

	assert.NoError(t, security.ValidateAttachment(att))
}

func TestValidateAttachmentRejectsEmptyFile(t *testing.T) {
	att := &domain.Attachment{Filename: "empty.txt", ContentType: "text/plain", Data: nil}
	assert.Error(t, security.ValidateAttachment(att))
}

func TestValidateAttachmentRejectsSpoofedContent(t *testing.T) {
	t.Run("pdf bytes declared as jpeg", func(t *testing.T) {
		att := &domain.Attachment{Filename: "fake.jpg", ContentType: "image/jpeg", Data: pdfBytes}
		err := security.ValidateAttachment(att)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match declared type")
	})

	t.Run("arbitrary binary declared as text", func(t *testing.T) {
		att := &domain.Attachment{
			Filename:    "fake.txt",
			ContentType: "text/plain",
			Data:        []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE},
		}
		assert.Error(t, security.ValidateAttachment(att))
	})
}
