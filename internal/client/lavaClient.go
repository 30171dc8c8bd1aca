package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"vpnshop/internal/breaker"
	"vpnshop/internal/config"
	"vpnshop/internal/model"
)

// ErrGatewayUnreachable wraps transport failures and an open circuit.
var ErrGatewayUnreachable = errors.New("payment gateway unreachable")

// GatewayError is a response from a reachable gateway that rejected the request.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("lava error %d: %s", e.StatusCode, e.Message)
}

type LavaClient interface {
	// CreateInvoice posts an already signed invoice payload.
	CreateInvoice(ctx context.Context, payload map[string]any) (*model.LavaInvoiceResult, error)
}

type lavaClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	breaker    *breaker.CircuitBreaker
}

func NewLavaClient(lavaCfg *config.Lava) LavaClient {
	return &lavaClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: lavaCfg.BaseApiURL,
		breaker:    breaker.New(5, 30*time.Second),
	}
}

func (c *lavaClientImpl) CreateInvoice(ctx context.Context, payload map[string]any) (*model.LavaInvoiceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	var (
		status  int
		rawBody []byte
	)
	err = c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseApiURL+"/invoice/create",
			bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("http new request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http client do: %w", err)
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		rawBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read lava response: %w", err)
		}
		if status >= 500 {
			return fmt.Errorf("lava server error %d", status)
		}
		return nil
	})
	if err != nil && status < 500 {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, err)
	}

	var result model.LavaInvoiceResult
	decodeErr := json.Unmarshal(rawBody, &result)

	if status < 200 || status >= 300 || !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "payment processing error"
		}
		return nil, &GatewayError{StatusCode: status, Message: msg}
	}
	if decodeErr != nil {
		return nil, &GatewayError{StatusCode: status, Message: "malformed gateway response"}
	}
	if result.Data == nil || result.Data.URL == "" {
		return nil, &GatewayError{StatusCode: status, Message: "gateway response without payment url"}
	}

	return &result, nil
}
