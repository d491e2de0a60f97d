// Package checkout sends the cart to the remote buy endpoint and interprets
// the answer. Requests are sent once; nothing is retried.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"storefront/internal/domain"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// Submitter posts checkout requests to {baseURL}/buy/
type Submitter struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewSubmitter creates a Submitter for the shop API at baseURL
func NewSubmitter(baseURL string, client *http.Client, logger *zap.Logger) *Submitter {
	return &Submitter{
		endpoint: baseURL + "/buy/",
		client:   client,
		logger:   logger,
	}
}

// Submit sends the product ids of items with the student flag and coupon.
// Cart contents are sent as captured; they are not checked against the
// current catalog.
func (s *Submitter) Submit(ctx context.Context, items []domain.CartItem, student bool, coupon string) (*domain.CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	body, err := json.Marshal(domain.NewCheckoutRequest(items, student, coupon))
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("Checkout request failed", zap.Error(err))
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil, &ParseError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, payload)}
		s.logger.Info("Checkout rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", httpErr.Message),
		)
		return nil, httpErr
	}

	result, err := decodeResult(payload)
	if err != nil {
		s.logger.Warn("Checkout response unreadable", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, &ParseError{Status: resp.StatusCode, Err: err}
	}

	s.logger.Info("Checkout completed",
		zap.Int("items", len(items)),
		zap.Bool("student", student),
		zap.Bool("coupon", coupon != ""),
		zap.String("reference", result.Reference),
	)
	return result, nil
}

// errorMessage prefers the body's message field and falls back to the status
func errorMessage(status int, payload []byte) string {
	var body struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if msg, ok := body.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Error %d", status)
}

var errMissingFields = errors.New("response has neither totalCost nor reference")

func decodeResult(payload []byte) (*domain.CheckoutResult, error) {
	var body struct {
		TotalCost any     `json:"totalCost"`
		Reference *string `json:"reference"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	if body.TotalCost == nil && body.Reference == nil {
		return nil, errMissingFields
	}

	result := &domain.CheckoutResult{}
	if body.TotalCost != nil {
		total, err := totalCost(body.TotalCost)
		if err != nil {
			return nil, err
		}
		result.TotalCost = total
	}
	if body.Reference != nil {
		result.Reference = *body.Reference
	}
	return result, nil
}

// totalCost reads a number or a numeric string. Anything else is a broken
// response, not a free order.
func totalCost(v any) (float64, error) {
	var (
		total float64
		err   error
	)
	switch t := v.(type) {
	case float64:
		total = t
	case string:
		total, err = cast.ToFloat64E(strings.TrimSpace(t))
	default:
		err = fmt.Errorf("unexpected type %T", v)
	}
	if err != nil || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("totalCost %v is not a number", v)
	}
	return total, nil
}
