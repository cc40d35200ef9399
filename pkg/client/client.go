package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aimploy/internal/storage"
	"aimploy/pkg/types"
)

// Client talks to the application's upload and submission endpoints. It is
// the file storage bridge used by the apply form outside the browser.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock overrides the time source used to build unique file names.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SaveFile uploads data under a collision resistant name derived from name
// and returns the reference path handed out by the server.
func (c *Client) SaveFile(ctx context.Context, name, contentType string, data []byte) (string, error) {
	body := types.UploadRequest{
		Filename: storage.UniqueFileName(c.now(), name),
		Data:     storage.EncodeDataURL(contentType, data),
	}

	var result types.UploadResponse
	status, err := c.postJSON(ctx, "/api/upload", body, &result)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if status != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d: %s", status, result.Error)
	}

	if result.FileURL == "" {
		return "", fmt.Errorf("upload response did not include a file url")
	}

	return result.FileURL, nil
}

// SubmitApplication posts a finished application and returns the id of the
// created candidate.
func (c *Client) SubmitApplication(ctx context.Context, req *types.SubmissionRequest) (string, error) {
	var result types.SubmissionResponse
	status, err := c.postJSON(ctx, "/api/submit-application", req, &result)
	if err != nil {
		return "", fmt.Errorf("failed to submit application: %w", err)
	}

	if status != http.StatusOK || !result.Success {
		detail := result.Details
		if detail == "" {
			detail = result.Error
		}
		if detail == "" {
			detail = http.StatusText(status)
		}
		return "", fmt.Errorf("submission failed with status %d: %s", status, detail)
	}

	return result.ID, nil
}

// FetchFile downloads the bytes behind a reference path.
func (c *Client) FetchFile(ctx context.Context, reference string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// postJSON sends body and decodes the JSON response into out regardless of
// the status code, which is returned for the caller to check.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil && resp.StatusCode == http.StatusOK {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
