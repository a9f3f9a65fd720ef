package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pos-terminal/internal/domain"
)

// SnapClient drives a hosted snap checkout session. The customer completes
// payment on the gateway's own page; the terminal only polls the session
// status until exactly one terminal resolution arrives. Cancelling the
// context while the charge is still open maps to a pending resolution, since
// the transaction stays open server-side.
type SnapClient struct {
	BaseURL      string
	ClientKey    string
	Client       HTTPClient
	PollInterval time.Duration
}

func NewSnapClient(baseURL, clientKey string, httpClient HTTPClient) *SnapClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SnapClient{
		BaseURL:      baseURL,
		ClientKey:    clientKey,
		Client:       httpClient,
		PollInterval: 2 * time.Second,
	}
}

type snapStatus struct {
	TransactionStatus string `json:"transaction_status"`
	StatusMessage     string `json:"status_message"`
}

func (c *SnapClient) Pay(ctx context.Context, snapToken string) (domain.PaymentResolution, error) {
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		status, err := c.fetchStatus(ctx, snapToken)
		if err != nil {
			if ctx.Err() != nil {
				return domain.PaymentPending, nil
			}
			return domain.PaymentError, err
		}

		switch status.TransactionStatus {
		case "settlement", "capture":
			return domain.PaymentSuccess, nil
		case "deny", "expire", "failure":
			return domain.PaymentError, nil
		case "cancel":
			return domain.PaymentCancelled, nil
		}

		select {
		case <-ctx.Done():
			return domain.PaymentPending, nil
		case <-ticker.C:
		}
	}
}

func (c *SnapClient) fetchStatus(ctx context.Context, snapToken string) (*snapStatus, error) {
	url := fmt.Sprintf("%s/v1/transactions/%s/status", c.BaseURL, snapToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.ClientKey, "")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snap status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snap status: unexpected status %d", resp.StatusCode)
	}

	var status snapStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode snap status: %w", err)
	}
	return &status, nil
}
