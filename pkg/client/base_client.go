package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned by Get when the breaker rejects the call
// without contacting the provider.
var ErrCircuitOpen = errors.New("provider circuit breaker is open")

const (
	DefaultTimeout = 10 * time.Second
	// MaxResponseBytes caps how much of a provider body is read.
	MaxResponseBytes = 1 << 20
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type BaseClient struct {
	client         HTTPClient
	logger         *zap.Logger
	circuitBreaker *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	Timeout time.Duration
	// Threshold is the number of consecutive failures that opens the
	// breaker. Zero disables it.
	Threshold      int
	BreakerTimeout time.Duration
	HTTPClient     HTTPClient
}

// Response is a completed HTTP exchange, whatever its status.
type Response struct {
	StatusCode int
	Body       []byte
}

type serverError struct {
	resp Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("HTTP %d", e.resp.StatusCode)
}

func NewBaseClient(name string, config ClientConfig, logger *zap.Logger) *BaseClient {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
		}
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
			Interval:    0,
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

// Get performs a single GET. A non-nil error means the exchange did not
// complete; any HTTP status, including 4xx and 5xx, is returned as a Response.
func (c *BaseClient) Get(ctx context.Context, rawURL string) (Response, error) {
	if c.circuitBreaker == nil {
		return c.doGet(ctx, rawURL)
	}

	out, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		resp, err := c.doGet(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		// 5xx counts against the breaker, 4xx is the caller's problem.
		if resp.StatusCode >= 500 {
			return nil, &serverError{resp: resp}
		}
		return resp, nil
	})

	var srvErr *serverError
	switch {
	case err == nil:
		return out.(Response), nil
	case errors.As(err, &srvErr):
		return srvErr.resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return Response{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	default:
		return Response{}, err
	}
}

func (c *BaseClient) doGet(ctx context.Context, rawURL string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("creating request failed: %w", redactURL(err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("GET %s: %w", req.URL.Host, redactURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("Request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)))

	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// redactURL drops the URL that url.Error embeds, since it carries the API key.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
