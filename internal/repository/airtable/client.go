package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-referral-backend/internal/domain"
)

// Config holds the store connection settings. The client is constructed from
// it and injected into the usecase; there is no package-level client state.
type Config struct {
	// APIURL is the API root, e.g. https://api.airtable.com/v0
	APIURL      string
	AccessToken string
	BaseID      string
	TableID     string
	// Timeout bounds every store call; zero means 30s.
	Timeout time.Duration
}

// Client talks to one Airtable table over its REST API. Safe for concurrent
// use.
type Client struct {
	tableURL   string
	token      string
	httpClient *http.Client
}

var _ domain.ReferralStore = (*Client)(nil)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		tableURL:   fmt.Sprintf("%s/%s/%s", strings.TrimRight(cfg.APIURL, "/"), cfg.BaseID, cfg.TableID),
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Wire shapes of the Airtable REST API.
type record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

type recordList struct {
	Records []record `json:"records"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateRecord writes one record and returns the store-assigned ID.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	body, err := json.Marshal(record{Fields: fields})
	if err != nil {
		return "", &domain.StoreError{Op: "create", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL, bytes.NewReader(body))
	if err != nil {
		return "", &domain.StoreError{Op: "create", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var created record
	if err := c.do(req, &created); err != nil {
		return "", &domain.StoreError{Op: "create", Err: err}
	}
	return created.ID, nil
}

// FindByEmail reports whether a record whose Email field equals the given
// value exists. The comparison runs store-side; the email is passed through
// untouched, so the store's own case semantics apply.
func (c *Client) FindByEmail(ctx context.Context, email string) (bool, error) {
	query := url.Values{}
	query.Set("filterByFormula", fmt.Sprintf(`{Email} = "%s"`, escapeFormulaString(email)))
	query.Set("maxRecords", "1")

	records, err := c.list(ctx, query)
	if err != nil {
		return false, &domain.StoreError{Op: "query", Err: err}
	}
	return len(records) > 0, nil
}

// Ping checks reachability with a minimal list call.
func (c *Client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("maxRecords", "1")
	if _, err := c.list(ctx, query); err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (c *Client) list(ctx context.Context, query url.Values) ([]record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var listed recordList
	if err := c.do(req, &listed); err != nil {
		return nil, err
	}
	return listed.Records, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("airtable: %s (%s)", apiErr.Error.Message, resp.Status)
		}
		return fmt.Errorf("airtable: unexpected status %s", resp.Status)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("airtable: decode response: %w", err)
		}
	}
	return nil
}

// escapeFormulaString keeps the submitted value a string literal inside
// filterByFormula, so quotes in an email cannot alter the formula.
func escapeFormulaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
