package resilience

import (
	"context"
	"net/http"
	"time"
)

// HTTPClient wraps a shared pooled http.Client with circuit breaker
// protection for calls to one external service.
type HTTPClient struct {
	client         *http.Client
	circuitBreaker *CircuitBreaker
}

// HTTPClientConfig controls pooling and timeout behavior.
type HTTPClientConfig struct {
	MaxIdleConns    int
	MaxConnsPerHost int
	IdleConnTimeout time.Duration
	RequestTimeout  time.Duration
}

// DefaultHTTPClientConfig returns settings sized for a hosting-API client:
// single-digit-second timeouts so one slow sub-fetch cannot stall an
// analysis run.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		MaxIdleConns:    10,
		MaxConnsPerHost: 20,
		IdleConnTimeout: 30 * time.Second,
		RequestTimeout:  8 * time.Second,
	}
}

// NewHTTPClient creates a pooled HTTP client guarded by cb.
func NewHTTPClient(config HTTPClientConfig, cb *CircuitBreaker) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:          config.MaxIdleConns,
		MaxConnsPerHost:       config.MaxConnsPerHost,
		MaxIdleConnsPerHost:   config.MaxIdleConns / 2,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: config.RequestTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.RequestTimeout,
		},
		circuitBreaker: cb,
	}
}

// Do executes an HTTP request through the circuit breaker.
func (h *HTTPClient) Do(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	var resp *http.Response

	err := h.circuitBreaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err = h.client.Do(req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Stats returns circuit breaker statistics.
func (h *HTTPClient) Stats() map[string]interface{} {
	return h.circuitBreaker.Stats()
}

// Close releases idle connections.
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}
