package security

import (
	"bytes"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"go-referral-backend/internal/domain"
)

// Magic byte signatures for the allowed attachment types. text/plain has no
// signature; it relies on content sniffing alone.
var magicBytes = map[string][][]byte{
	"image/jpeg":      {{0xFF, 0xD8, 0xFF}},
	"image/png":       {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	"application/pdf": {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	"text/plain":      {},
}

// ValidateAttachment performs 3-layer validation of an uploaded referral
// attachment:
// 1. Declared media type against the allow-list
// 2. Size against the 5 MiB ceiling
// 3. Content verification (magic bytes + MIME sniffing) so a renamed binary
//    cannot pass as an allowed type
// A nil error means the attachment may be forwarded to the store.
func ValidateAttachment(att *domain.Attachment) error {
	if !domain.AllowedAttachmentTypes[att.ContentType] {
		return fmt.Errorf("invalid file type %q. Only JPEG, PNG, PDF, and TXT are allowed", att.ContentType)
	}

	if len(att.Data) > domain.AttachmentMaxBytes {
		return fmt.Errorf("file exceeds the %d MB size limit", domain.AttachmentMaxBytes/(1024*1024))
	}

	if len(att.Data) == 0 {
		return fmt.Errorf("file is empty")
	}

	if !matchesMagicBytes(att.ContentType, att.Data) {
		return fmt.Errorf("file content does not match declared type %q", att.ContentType)
	}

	// Sniff the actual content. mimetype falls back to text/plain for
	// printable content and application/octet-stream for arbitrary binary,
	// so an allowed declaration over disallowed bytes is caught here.
	detected := mimetype.Detect(att.Data)
	if !mimeMatchesDeclared(detected, att.ContentType) {
		return fmt.Errorf("file content detected as %q, declared as %q", detected.String(), att.ContentType)
	}

	return nil
}

func matchesMagicBytes(contentType string, data []byte) bool {
	signatures, ok := magicBytes[contentType]
	if !ok {
		return false
	}
	// No signatures registered (text/plain) means nothing to check here.
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// mimeMatchesDeclared walks the detected type and its ancestors (mimetype
// reports e.g. text/plain; charset=utf-8, or a subtype of application/pdf)
// looking for the declared type.
func mimeMatchesDeclared(detected *mimetype.MIME, declared string) bool {
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(declared) {
			return true
		}
	}
	return false
}
