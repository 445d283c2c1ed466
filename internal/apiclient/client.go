// Package apiclient provides a typed client for the status backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/bissquit/statusdash/internal/pkg/ctxlog"
	"github.com/bissquit/statusdash/internal/pkg/metrics"
	"github.com/bissquit/statusdash/internal/version"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	apiPrefix      = "/api/v1"
	maxBodySize    = 10 << 20
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token sends the request anonymously.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource with a fixed token.
type StaticToken string

// Token returns the token itself.
func (t StaticToken) Token() string { return string(t) }

// Config holds client configuration.
type Config struct {
	BaseURL   string        // backend origin, e.g. https://status.example.com
	Timeout   time.Duration // per-request timeout
	RateLimit float64       // requests per second, 0 disables limiting
	Burst     int
	UserAgent string
}

// Client issues requests against the status backend.
type Client struct {
	config     Config
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	validate   *validator.Validate
}

// New creates a new client. tokens may be nil for anonymous use.
func New(config Config, tokens TokenSource) *Client {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = version.UserAgent("statusdash")
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tokens:   tokens,
		limiter:  limiter,
		validate: validate,
	}
}

// WithToken returns a copy of the client that authenticates with token.
// The copy shares the HTTP transport and rate limiter.
func (c *Client) WithToken(token string) *Client {
	return c.WithTokenSource(StaticToken(token))
}

// WithTokenSource returns a copy of the client that reads its token from ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	clone := *c
	clone.tokens = ts
	return &clone
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// request describes one API call. endpoint is the path template used as
// the metrics label.
type request struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	body     any
}

func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fromValidator(err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	start := time.Now()
	err := c.send(ctx, req, out)
	metrics.UpstreamRequestDuration.WithLabelValues(req.method, req.endpoint, outcome(err)).
		Observe(time.Since(start).Seconds())

	ctxlog.FromContext(ctx).Debug("upstream request",
		"method", req.method,
		"endpoint", req.endpoint,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	return err
}

func (c *Client) send(ctx context.Context, req request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Op: "rate limit", Err: err}
		}
	}

	var bodyReader io.Reader
	if req.body != nil {
		body, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	target := c.config.BaseURL + apiPrefix + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("X-Request-ID", requestID(ctx))
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &NetworkError{Op: req.method + " " + req.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &NetworkError{Op: "read response", Err: err}
	}

	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, req.endpoint, err)
	}
	return nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return "auth_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrServer):
		return "server_error"
	default:
		return "invalid_response"
	}
}

// validatable is implemented by domain entities that check upstream payloads.
type validatable interface {
	Validate() error
}

// normalizer is implemented by entities that can repair known upstream
// inconsistencies before validation.
type normalizer interface {
	Normalize() bool
}

func checkResponse(v validatable) error {
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// keepValid normalizes every item and drops the ones that still fail
// validation, so one bad row does not take down a whole listing.
func keepValid[T any, P interface {
	*T
	validatable
}](ctx context.Context, endpoint string, items []T) []T {
	logger := ctxlog.FromContext(ctx)
	kept := items[:0]
	for i := range items {
		item := P(&items[i])
		if n, ok := any(item).(normalizer); ok && n.Normalize() {
			logger.Warn("normalized upstream item", "endpoint", endpoint, "index", i)
		}
		if err := item.Validate(); err != nil {
			logger.Warn("dropped invalid upstream item", "endpoint", endpoint, "index", i, "error", err)
			metrics.UpstreamInvalidItems.WithLabelValues(endpoint).Inc()
			continue
		}
		kept = append(kept, items[i])
	}
	return kept
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func getList[T any, P interface {
	*T
	validatable
}](ctx context.Context, c *Client, req request) ([]T, error) {
	var items []T
	if err := c.do(ctx, req, &items); err != nil {
		return nil, err
	}
	items = keepValid[T, P](ctx, req.endpoint, items)
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func getOne[T any, P interface {
	*T
	validatable
}](ctx context.Context, c *Client, req request) (*T, error) {
	var item T
	if err := c.do(ctx, req, &item); err != nil {
		return nil, err
	}
	if err := checkResponse(P(&item)); err != nil {
		return nil, err
	}
	return &item, nil
}
