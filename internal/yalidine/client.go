package yalidine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/rbenali/kahina/internal/telemetry"
)

// Default client tuning. The request timeout is generous on purpose: quotes
// are triggered from slow mobile connections and the provider degrades under
// load before it fails.
const (
	defaultTimeout     = 30 * time.Second
	breakerMaxRequests = 3
	breakerInterval    = 60 * time.Second
	breakerTimeout     = 30 * time.Second
)

// Client is a thin REST client for the Yalidine shipping API. It holds no
// mutable state beyond the HTTP plumbing: every method is a pure
// request/response exchange.
type Client struct {
	baseURL    string
	apiID      string
	apiToken   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// Config contains configuration for the Yalidine client.
type Config struct {
	BaseURL  string
	APIID    string
	APIToken string
	Timeout  time.Duration
	Logger   *slog.Logger // Optional: defaults to slog.Default()
}

// NewClient creates a new Yalidine API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.APIID == "" || cfg.APIToken == "" {
		return nil, ErrMissingCredentials
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "yalidine",
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		apiID:      cfg.APIID,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}, nil
}

// get performs an authenticated GET against the provider and returns the raw
// body. Transport failures come back as NetworkError, non-2xx responses as
// ServerError; both pass through the circuit breaker.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("X-API-ID", c.apiID)
		req.Header.Set("X-API-TOKEN", c.apiToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, NetworkError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			return nil, ServerError(resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if m := telemetry.Business; m != nil {
		m.ProviderAPILatency.WithLabelValues(operationForPath(path)).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		// Breaker-open errors look like transport failures to callers.
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, NetworkError(err)
		}
		return nil, err
	}

	return body, nil
}

func operationForPath(path string) string {
	switch path {
	case "/wilayas":
		return "list_wilayas"
	case "/communes":
		return "list_communes"
	case "/centers":
		return "list_centers"
	case "/fees":
		return "calculate_fees"
	default:
		return "other"
	}
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{
			Code:    codeUnavailable,
			Message: "Shipping provider returned malformed response",
			Err:     err,
		}
	}
	return nil
}
