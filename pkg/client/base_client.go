package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// response is a fully read HTTP response.
type response struct {
	status int
	body   []byte
}

// BaseClient issues exactly one GET per call. The optional circuit breaker
// only fails fast while open; it never repeats a request.
type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	APIKey  string
	BaseURL string
	// Zero keeps the net/http default (no timeout).
	Timeout time.Duration
	// Consecutive transport/5xx failures before the breaker opens; zero disables it.
	Threshold      int
	BreakerTimeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient HTTPClient
}

var errUpstreamStatus = errors.New("upstream server error")

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	c := &BaseClient{
		client: httpClient,
		logger: logger,
	}

	if config.Threshold > 0 {
		threshold := uint32(config.Threshold)
		c.circuitBreaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     config.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Info("Circuit breaker state changed",
					zap.String("client", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}

	return c
}

// Get performs a single GET. Any error returned is a transport-level failure;
// non-2xx responses are returned with their status for the caller to judge.
func (c *BaseClient) Get(ctx context.Context, url string) (*response, error) {
	if c.circuitBreaker == nil {
		return c.doGet(ctx, url)
	}

	var resp *response
	_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		var err error
		resp, err = c.doGet(ctx, url)
		if err != nil {
			return nil, err
		}
		if resp.status >= http.StatusInternalServerError {
			return nil, errUpstreamStatus
		}
		return nil, nil
	})

	if err != nil && !errors.Is(err, errUpstreamStatus) {
		return nil, err
	}
	return resp, nil
}

func (c *BaseClient) doGet(ctx context.Context, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %w", err)
	}

	c.logger.Debug("Sending request", zap.String("url", redact(url)))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body failed: %w", err)
	}

	c.logger.Debug("Response received",
		zap.String("url", redact(url)),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)))

	return &response{status: resp.StatusCode, body: body}, nil
}

// IsBreakerOpen reports whether err came from an open circuit breaker.
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
