package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pos-terminal/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var ErrBackend = errors.New("backend rejected the request")

// BackendClient talks to the POS backend that owns transactions, prices and
// inventory. The terminal never persists any of that itself.
type BackendClient struct {
	BaseURL string
	Client  HTTPClient
}

func NewBackendClient(baseURL string, httpClient HTTPClient) *BackendClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BackendClient{BaseURL: baseURL, Client: httpClient}
}

// errorBody is the backend's error envelope: a message, or a list of
// validation errors. The first available text becomes the user-facing message.
type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (e errorBody) text() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return ""
}

// Submit posts the normalized order. The response carries the transaction id
// and, for gateway payments, the snap session token.
func (c *BackendClient) Submit(ctx context.Context, payload domain.OrderPayload) (*domain.SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.asError(resp)
	}

	var result domain.SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transaction response: %w", err)
	}
	return &result, nil
}

// Get fetches the committed transaction detail. The backend wraps detail
// responses in a data envelope.
func (c *BackendClient) Get(ctx context.Context, id int) (*domain.Transaction, error) {
	url := fmt.Sprintf("%s/api/transactions/%d", c.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.asError(resp)
	}

	var envelope struct {
		Data domain.Transaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode transaction %d: %w", id, err)
	}
	return &envelope.Data, nil
}

func (c *BackendClient) asError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := body.text(); msg != "" {
			return fmt.Errorf("%w: %s", ErrBackend, msg)
		}
	}
	return fmt.Errorf("%w: status %d", ErrBackend, resp.StatusCode)
}
