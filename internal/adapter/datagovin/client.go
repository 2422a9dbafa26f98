// Package datagovin fetches raw agricultural datasets from the data.gov.in
// resource API and serves them to the analysis layer as canonical tables.
package datagovin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/agri-data-etl/internal/domain"
	"github.com/couchcryptid/agri-data-etl/internal/observability"
)

const (
	maxAttempts    = 3
	initialBackoff = 1 * time.Second
)

// Dataset identifies one data.gov.in resource. Name is a short label used
// in logs and metrics; ResourceID is the API's resource UUID.
type Dataset struct {
	Name       string
	ResourceID string
}

// Fetcher retrieves every row of a dataset matching the given field
// filters, transparently following pagination.
type Fetcher interface {
	FetchAll(ctx context.Context, ds Dataset, filters map[string]string) ([]domain.RawRecord, error)
}

// Client implements Fetcher against the data.gov.in resource API.
type Client struct {
	apiKey     string
	baseURL    string
	pageLimit  int
	backoff    time.Duration
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a data.gov.in API client. baseURL is the resource API
// root, e.g. "https://api.data.gov.in/resource".
func NewClient(apiKey, baseURL string, pageLimit int, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		pageLimit: pageLimit,
		backoff:   initialBackoff,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchAll pages through a dataset until the API reports no further rows.
// Transient failures (network errors and 5xx responses) are retried with
// exponential backoff; 4xx responses fail immediately.
func (c *Client) FetchAll(ctx context.Context, ds Dataset, filters map[string]string) ([]domain.RawRecord, error) {
	var all []domain.RawRecord
	offset := 0

	for {
		page, total, err := c.fetchPage(ctx, ds, filters, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch %s at offset %d: %w", ds.Name, offset, err)
		}
		all = append(all, page...)
		offset += len(page)

		if len(page) < c.pageLimit || (total > 0 && offset >= total) {
			break
		}
	}

	c.logger.Debug("dataset fetched",
		"dataset", ds.Name,
		"records", len(all),
	)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, ds Dataset, filters map[string]string, offset int) ([]domain.RawRecord, int, error) {
	params := url.Values{
		"api-key": {c.apiKey},
		"format":  {"json"},
		"limit":   {fmt.Sprint(c.pageLimit)},
		"offset":  {fmt.Sprint(offset)},
	}
	for field, value := range filters {
		params.Set(fmt.Sprintf("filters[%s]", field), value)
	}
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ds.ResourceID), params.Encode())

	backoff := c.backoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			c.metrics.APIRequests.WithLabelValues(ds.Name, "retry").Inc()
			c.logger.Warn("retrying dataset fetch",
				"dataset", ds.Name,
				"attempt", attempt,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		page, total, err := c.doRequest(ctx, ds, fullURL)
		if err == nil {
			return page, total, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, 0, err
		}
	}
	return nil, 0, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, ds Dataset, fullURL string) ([]domain.RawRecord, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.WithLabelValues(ds.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(ds.Name, "error").Inc()
		return nil, 0, &transientError{err: fmt.Errorf("dataset request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.APIRequests.WithLabelValues(ds.Name, "error").Inc()
		apiErr := fmt.Errorf("data.gov.in API error: status %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= 500 {
			return nil, 0, &transientError{err: apiErr}
		}
		return nil, 0, apiErr
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.metrics.APIRequests.WithLabelValues(ds.Name, "error").Inc()
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}
	c.metrics.APIRequests.WithLabelValues(ds.Name, "success").Inc()
	return apiResp.Records, apiResp.Total, nil
}

// transientError marks a failure worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// data.gov.in resource API response envelope.
type response struct {
	Total   int                `json:"total"`
	Count   int                `json:"count"`
	Records []domain.RawRecord `json:"records"`
}
