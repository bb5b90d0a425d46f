package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the outcome of one completed round trip.
type Response struct {
	StatusCode int
	Body       []byte
}

type BaseClient struct {
	client HTTPClient
	logger *zap.Logger
}

func NewBaseClient(httpClient HTTPClient, timeout time.Duration, logger *zap.Logger) *BaseClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BaseClient{
		client: httpClient,
		logger: logger,
	}
}

// Get performs a single GET request. Errors returned here are transport
// failures; any status code counts as a completed round trip.
func (c *BaseClient) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error repeats the full URL, query string and credentials included.
		var urlErr *neturl.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("GET %s%s: %w", req.URL.Host, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	c.logger.Debug("Request completed",
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)))

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
