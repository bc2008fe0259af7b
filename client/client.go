// Package client is the Go submission client for the referral intake API.
// It validates payloads locally before transmission, so a form integration
// gets immediate field-level feedback without a round trip; the server
// remains the authoritative gate.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go-referral-backend/internal/domain"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient substitutes the transport, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    *domain.SubmitResult `json:"data"`
	Errors  []domain.FieldError  `json:"errors"`
}

// Submit validates the referral locally and, if it passes, posts it as
// multipart form data. Local violations come back as *domain.ValidationError
// without any network call. Server outcomes map the same way the server
// reports them: validation failure to *domain.ValidationError, duplicate to
// domain.ErrDuplicate, anything else to a plain error carrying the server
// message.
func (c *Client) Submit(ctx context.Context, ref domain.Referral, att *domain.Attachment) (*domain.SubmitResult, error) {
	fieldErrs := ValidateReferral(ref)
	fieldErrs = append(fieldErrs, ValidateAttachment(att)...)
	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	body, contentType, err := encodeForm(domain.TrimReferral(ref), att)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/referrals/submit", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit referral: %w", err)
	}
	defer resp.Body.Close()

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("submit referral: unexpected response (%s): %w", resp.Status, err)
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		if env.Data == nil {
			return nil, fmt.Errorf("submit referral: response missing record id")
		}
		return env.Data, nil
	case http.StatusBadRequest:
		if len(env.Errors) > 0 {
			return nil, &domain.ValidationError{Fields: env.Errors}
		}
		return nil, fmt.Errorf("submit referral: %s", env.Message)
	case http.StatusConflict:
		return nil, domain.ErrDuplicate
	default:
		return nil, fmt.Errorf("submit referral: %s (%s)", env.Message, resp.Status)
	}
}

// Test probes the server's external-store connectivity endpoint.
func (c *Client) Test(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/referrals/test", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env, err := decodeEnvelope(resp.Body)
		if err != nil {
			return fmt.Errorf("store probe: unexpected response (%s)", resp.Status)
		}
		return fmt.Errorf("store probe: %s", env.Message)
	}
	return nil
}

func encodeForm(ref domain.Referral, att *domain.Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"FirstName": ref.FirstName,
		"LastName":  ref.LastName,
		"Phone":     ref.Phone,
		"Email":     ref.Email,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if ref.Message != "" {
		if err := w.WriteField("Message", ref.Message); err != nil {
			return nil, "", err
		}
	}

	if att != nil {
		// CreateFormFile would hardcode application/octet-stream; the
		// server checks the declared media type, so set it explicitly.
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachment"; filename=%q`, att.Filename))
		header.Set("Content-Type", att.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, err
	}
	return &env, nil
}
