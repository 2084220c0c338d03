package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/merchdrop/storefront-gateway/pkg/config"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
	"github.com/merchdrop/storefront-gateway/pkg/logger"
	"github.com/merchdrop/storefront-gateway/pkg/metrics"
)

const actingUserHeader = "X-Acting-User"

var errBaseURLRequired = errors.New("upstream base url is required")

// Client exposes the backing marketplace API with centralized auth, logging, and error mapping.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	logger       *logger.Logger
	metrics      *metrics.CheckoutMetrics
}

// NewClient initializes the upstream wrapper and validates configuration.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, m *metrics.CheckoutMetrics) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		serviceToken: strings.TrimSpace(cfg.ServiceToken),
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logg,
		metrics:      m,
	}, nil
}

// BaseURL reports the configured upstream root.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Ping verifies upstream reachability for the readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var out map[string]any
	return c.do(ctx, http.MethodGet, "/health/live", "", nil, &out)
}

// do issues one JSON request against the upstream API and decodes the response.
// Non-2xx statuses map to coded errors carrying any upstream-supplied detail.
func (c *Client) do(ctx context.Context, method, path, actingUserID string, body any, out any) error {
	if c == nil || c.httpClient == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "upstream client unavailable")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upstream request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}
	if actingUserID != "" {
		req.Header.Set(actingUserHeader, actingUserID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observe(method, path, time.Since(start))
	if err != nil {
		c.log(ctx, "error", method, path, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upstream response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := detailFromBody(payload)
		c.log(ctx, "error", method, path, map[string]any{
			"status": resp.StatusCode,
			"detail": detail,
		})
		wrapped := pkgerrors.Wrap(
			domainCodeForStatus(resp.StatusCode),
			fmt.Errorf("upstream status %d", resp.StatusCode),
			"upstream call failed",
		)
		if detail != "" {
			wrapped = wrapped.WithDetails(map[string]any{"detail": detail})
		}
		return wrapped
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upstream response")
		}
	}
	return nil
}

func (c *Client) observe(method, path string, elapsed time.Duration) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.ObserveUpstreamCall(fmt.Sprintf("%s %s", method, trimPathID(path)), elapsed)
}

// trimPathID collapses trailing identifiers so metric labels stay bounded.
func trimPathID(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if len(part) >= 16 {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func (c *Client) log(ctx context.Context, phase, method, path string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"upstream_method": method,
		"upstream_path":   path,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Warn(ctx, "upstream.call_failed")
	default:
		c.logger.Info(ctx, "upstream.call")
	}
}

// detailFromBody pulls a human-readable message out of an upstream error body.
// Accepted shapes, in priority order: error.message, message, error as string.
func detailFromBody(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if nested, ok := body["error"].(map[string]any); ok {
		if msg, ok := nested["message"].(string); ok && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}
	if msg, ok := body["message"].(string); ok && strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg)
	}
	if msg, ok := body["error"].(string); ok && strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg)
	}
	return ""
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
