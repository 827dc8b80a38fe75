package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/zscale/internal/domain"
)

// Client provides access to the Zephyr Scale REST API.
type Client interface {
	// Ping checks that the API is reachable and the credentials are accepted.
	Ping(ctx context.Context) error

	GetTestCase(ctx context.Context, key string) (*domain.TestCase, error)
	SearchTestCases(ctx context.Context, q TestCaseQuery) (*Page[domain.TestCase], error)
	CreateTestCase(ctx context.Context, in TestCaseInput) (*Created, error)
	UpdateTestCase(ctx context.Context, key string, in TestCaseInput) error
	DeleteTestCase(ctx context.Context, key string) error
	GetTestSteps(ctx context.Context, key string) ([]domain.TestStep, error)
	SetTestSteps(ctx context.Context, key string, steps []domain.TestStep) error
	GetTestCaseLinks(ctx context.Context, key string) ([]domain.IssueLink, error)
	LinkTestCaseToIssue(ctx context.Context, key, issueKey string) error

	GetTestCycle(ctx context.Context, key string) (*domain.TestCycle, error)
	SearchTestCycles(ctx context.Context, q TestCycleQuery) (*Page[domain.TestCycle], error)
	CreateTestCycle(ctx context.Context, in TestCycleInput) (*Created, error)
	UpdateTestCycle(ctx context.Context, key string, in TestCycleInput) error
	DeleteTestCycle(ctx context.Context, key string) error
	LinkTestCycleToIssue(ctx context.Context, key, issueKey string) error
	AddTestCaseToCycle(ctx context.Context, cycleKey, testCaseKey string) (*Created, error)

	GetTestExecution(ctx context.Context, key string) (*domain.TestExecution, error)
	SearchTestExecutions(ctx context.Context, q ExecutionQuery) (*Page[domain.TestExecution], error)
	CreateTestExecution(ctx context.Context, in ExecutionInput) (*Created, error)
	UpdateTestExecution(ctx context.Context, key string, in ExecutionInput) error
	DeleteTestExecution(ctx context.Context, key string) error

	// PageSize is the configured default maxResults.
	PageSize() int
}

// Created is the reference returned by create endpoints.
type Created struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

type client struct {
	cfg      Config
	http     *http.Client
	observer Observer
	now      func() time.Time
}

// NewClient creates a Client for the given configuration. A nil observer
// discards call events.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.resolve()
	return &client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
		now:      time.Now,
	}
}

func (c *client) PageSize() int { return c.cfg.PageSize }

func (c *client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "healthcheck", nil, nil, nil)
}

// do sends one logical request, retrying up to cfg.MaxRetries times. GET, PUT
// and DELETE retry on transport failures, 429 and 5xx. POST only retries on
// 429 and failed dials, where the server never saw the request. out, when
// non-nil, receives the decoded JSON body.
func (c *client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	start := time.Now()

	if c.cfg.ReadOnly && method != http.MethodGet {
		return fmt.Errorf("%w: %s %s", ErrReadOnly, method, path)
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	var (
		lastErr  error
		status   int
		attempts int
	)
	maxAttempts := 1 + c.cfg.MaxRetries

	for attempts = 1; attempts <= maxAttempts; attempts++ {
		status, lastErr = c.attempt(ctx, method, path, params, payload, out)
		if lastErr == nil || !isRetryable(ctx, method, lastErr) {
			break
		}
		if attempts < maxAttempts {
			if err := sleepCtx(ctx, c.backoff(attempts)); err != nil {
				lastErr = err
				break
			}
		}
	}
	if attempts > maxAttempts {
		attempts = maxAttempts
	}

	err := c.classify(ctx, lastErr, attempts)
	c.observer.OnCallComplete(CallEvent{
		Method:    method,
		Path:      path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *client) attempt(ctx context.Context, method, path string, params url.Values, payload []byte, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	target := c.cfg.BaseURL + "/" + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	auth, err := c.authorization(method, req.URL.Path, params)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, newAPIError(method, path, resp.StatusCode, data)
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *client) authorization(method, path string, params url.Values) (string, error) {
	if c.cfg.AuthMode == AuthToken {
		if c.cfg.APIToken == "" {
			return "", fmt.Errorf("%w: ZEPHYR_API_TOKEN required for token auth", ErrMissingCredentials)
		}
		return "Bearer " + c.cfg.APIToken, nil
	}
	creds := Credentials{
		AccountID: c.cfg.AccountID,
		AccessKey: c.cfg.AccessKey,
		SecretKey: c.cfg.SecretKey,
	}
	token, err := GenerateJWT(creds, method, path, params, c.now(), time.Duration(c.cfg.JWTTTLSec)*time.Second)
	if err != nil {
		return "", err
	}
	return "JWT " + token, nil
}

// backoff doubles from RetryBackoffMs after each failed attempt, capped at
// five seconds.
func (c *client) backoff(attempt int) time.Duration {
	d := time.Duration(c.cfg.RetryBackoffMs) * time.Millisecond
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// classify maps the final attempt's error onto the package sentinels.
func (c *client) classify(ctx context.Context, err error, attempts int) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Retryable() && attempts > 1 {
			return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempts, apiErr)
		}
		return apiErr
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isRetryable(ctx context.Context, method string, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrMissingCredentials) {
		return false
	}
	var apiErr *APIError
	if !isIdempotent(method) {
		if errors.As(err, &apiErr) {
			return apiErr.StatusCode == http.StatusTooManyRequests
		}
		return isDialError(err)
	}
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return isConnectionError(err) || isTimeout(err) || errors.Is(err, context.DeadlineExceeded)
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// isDialError reports a failure to connect, before any bytes were sent.
func isDialError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr) && netErr.Op == "dial"
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrReadOnly):
		return "READ_ONLY"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP_%d", apiErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}

// escapeKey makes a test case, cycle or execution key safe as a path segment.
func escapeKey(key string) string {
	return url.PathEscape(strings.TrimSpace(key))
}
