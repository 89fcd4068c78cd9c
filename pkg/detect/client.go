package detect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Techy2419/Focus-Flow/internal/httpc"
)

// Client is the HTTP detection client. One instance is shared by the
// polling loop for the lifetime of a session.
type Client struct {
	baseURL string
	config  *Config
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a new detection client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		config:  cfg,
		http:    httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "detect.client"),
	}, nil
}

// Detect sends one JPEG frame to the service and returns the result.
func (c *Client) Detect(ctx context.Context, jpeg []byte) (*Result, error) {
	if len(jpeg) == 0 {
		return nil, ErrEmptyFrame
	}

	start := time.Now()

	req, err := httpc.NewFileUpload(ctx, c.baseURL+"/detect", "file", "frame.jpg", jpeg)
	if err != nil {
		return nil, WrapError(err)
	}

	resp, err := c.doWithRetry(ctx, req, jpeg)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, WrapError(err)
	}

	c.logger.Debug("frame analyzed",
		"latency_ms", time.Since(start).Milliseconds(),
		"backend_ms", result.ProcessingTimeMs,
		"phones", len(result.PhoneBoxes),
		"pose", result.PoseDetected,
		"face", result.FaceDetected,
	)

	return &result, nil
}

// Health checks service connectivity and model readiness.
func (c *Client) Health(ctx context.Context) error {
	status, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if !status.Ready {
		return ErrNotReady
	}
	return nil
}

// Status returns the service's full health response.
func (c *Client) Status(ctx context.Context) (*ServiceStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, WrapError(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, WrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var status ServiceStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, WrapError(err)
	}
	return &status, nil
}

// Close releases resources.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// doWithRetry performs the request with retry on transient failures.
// The frame is re-uploaded on each attempt since the multipart body is
// consumed by the transport.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, jpeg []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
			// Rebuild the request; the previous body was consumed
			var err error
			req, err = httpc.NewFileUpload(ctx, c.baseURL+"/detect", "file", "frame.jpg", jpeg)
			if err != nil {
				return nil, WrapError(err)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = WrapError(err)
			c.logger.Warn("request failed, retrying",
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		// Check if retryable
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			c.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// Try to parse FastAPI-style error
	var errResp struct {
		Detail string `json:"detail"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Detail != "" {
		message = errResp.Detail
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// Verify Client implements Detector at compile time.
var _ Detector = (*Client)(nil)
