// Package workerclient talks to the external worker service's job API.
package workerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/planhub/planhub-api/internal/core"
)

// Worker API paths, relative to the configured base URL.
const (
	statusPathPrefix = "/api/v1/status/"
	bulkDeletePath   = "/api/v1/jobs/bulk-delete"
)

// secretHeader authenticates server-to-worker requests.
const secretHeader = "X-API-Secret"

// maxResponseBodyBytes caps how much of a worker response we buffer. Status
// bodies are small JSON documents; anything larger is a worker bug.
const maxResponseBodyBytes = 1 << 20

// Options configures the worker API client.
type Options struct {
	BaseURL   string
	APISecret string
	Timeout   time.Duration
	Client    *http.Client
	Logger    *slog.Logger
}

// Client implements core.WorkerClient over the worker's HTTP API.
type Client struct {
	baseURL   string
	apiSecret string
	http      *http.Client
	logger    *slog.Logger
}

var _ core.WorkerClient = (*Client)(nil)

// New builds a worker API client. The base URL must be set; the API secret may
// be empty, in which case every call fails with core.ErrWorkerSecretMissing so
// handlers can surface a configuration error instead of an upstream one.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("worker base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse worker base url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := opts.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   base,
		apiSecret: strings.TrimSpace(opts.APISecret),
		http:      hc,
		logger:    logger.With("component", "worker_client"),
	}, nil
}

// GetStatus fetches the worker's view of a job. The worker response body is
// returned verbatim so the proxy layer can pass it through unchanged. A worker
// 404 maps to core.ErrJobNotFound; other upstream statuses are not errors.
func (c *Client) GetStatus(ctx context.Context, jobID string) (*core.WorkerStatusResponse, error) {
	if c.apiSecret == "" {
		return nil, core.ErrWorkerSecretMissing
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("job id is required")
	}

	endpoint := c.baseURL + statusPathPrefix + url.PathEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set(secretHeader, c.apiSecret)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.ErrJobNotFound
	}
	return resp, nil
}

// CancelJobs asks the worker to delete the given jobs. The worker treats
// unknown ids as already deleted, so the call is idempotent.
func (c *Client) CancelJobs(ctx context.Context, jobIDs []string) (*core.WorkerStatusResponse, error) {
	if c.apiSecret == "" {
		return nil, core.ErrWorkerSecretMissing
	}
	if len(jobIDs) == 0 {
		return nil, errors.New("at least one job id is required")
	}

	body, err := json.Marshal(map[string][]string{"job_ids": jobIDs})
	if err != nil {
		return nil, fmt.Errorf("encode cancel payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+bulkDeletePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build cancel request: %w", err)
	}
	req.Header.Set(secretHeader, c.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*core.WorkerStatusResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("worker request failed: %w", err)
	}

	body, readErr := readBody(resp.Body)
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return nil, errors.Join(
				fmt.Errorf("read worker response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return nil, fmt.Errorf("read worker response: %w", readErr)
	}
	if closeErr := resp.Body.Close(); closeErr != nil {
		return nil, fmt.Errorf("close response body: %w", closeErr)
	}

	return &core.WorkerStatusResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func readBody(body io.Reader) (json.RawMessage, error) {
	limited := io.LimitReader(body, maxResponseBodyBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if len(data) > maxResponseBodyBytes {
		return nil, fmt.Errorf("worker response exceeds %d bytes", maxResponseBodyBytes)
	}
	return data, nil
}
