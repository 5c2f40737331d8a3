// Package orders hands assembled order payloads to the external
// order-submission service.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rbenali/kahina/internal/domain"
)

const defaultTimeout = 30 * time.Second

// HTTPSubmitter implements domain.OrderSubmitter over the order service's
// REST endpoint. The payload goes out verbatim; no retries, no response
// interpretation beyond success/failure and the order identifier. On failure
// the caller keeps the form state so the customer can retry without
// re-entering anything.
type HTTPSubmitter struct {
	submitURL  string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config contains configuration for the order submitter.
type Config struct {
	SubmitURL string
	APIKey    string
	Timeout   time.Duration
	Logger    *slog.Logger // Optional: defaults to slog.Default()
}

// NewHTTPSubmitter creates a new order submission client.
func NewHTTPSubmitter(cfg Config) (*HTTPSubmitter, error) {
	if cfg.SubmitURL == "" {
		return nil, domain.Invalid("orders.new", "order submit URL is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &HTTPSubmitter{
		submitURL:  cfg.SubmitURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Submit posts the payload to the order service and returns the receipt.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload *domain.OrderPayload) (*domain.OrderReceipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.Internal(err, "orders.submit", "failed to encode order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.submitURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.Internal(err, "orders.submit", "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	s.logger.Info("submitting order",
		"items", len(payload.Items),
		"total_price", payload.TotalPrice,
		"wilaya_id", payload.Destination.WilayaID,
	)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("order submission transport failure", "error", err)
		return nil, domain.Unavailable(err, "orders.submit", "Order could not be submitted, please try again")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		s.logger.Error("order submission rejected", "status", resp.StatusCode)
		return nil, domain.Unavailable(
			fmt.Errorf("order service returned HTTP %d", resp.StatusCode),
			"orders.submit",
			"Order could not be submitted, please try again",
		)
	}

	var receipt domain.OrderReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, domain.Unavailable(err, "orders.submit", "Order service returned malformed response")
	}

	s.logger.Info("order submitted", "order_id", receipt.OrderID)
	return &receipt, nil
}
