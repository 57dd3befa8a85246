package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fisiomanager/clinic-api/pkg/circuitbreaker"
)

const defaultBaseURL = "https://api.mercadopago.com"

// Client talks to the hosted payment provider: it creates checkout
// preferences and fetches payment details referenced by webhook
// notifications.
type Client interface {
	CreatePreference(ctx context.Context, pref *PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

type PreferenceRequest struct {
	Items             []Item   `json:"items"`
	Payer             Payer    `json:"payer"`
	BackURLs          BackURLs `json:"back_urls"`
	AutoReturn        string   `json:"auto_return,omitempty"`
	ExternalReference string   `json:"external_reference"`
	NotificationURL   string   `json:"notification_url,omitempty"`
}

type Item struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type Payer struct {
	Email string `json:"email"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	PayerEmail        string  `json:"-"`
}

type Config struct {
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
}

type client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	cb          *circuitbreaker.CircuitBreaker
}

func NewClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &client{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "payment-provider",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
	}
}

func (c *client) CreatePreference(ctx context.Context, pref *PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preference: %w", err)
	}

	var result Preference
	err = c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("preference request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("preference request returned %d: %s", resp.StatusCode, payload)
		}

		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var result Payment
	err := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("payment lookup failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("payment lookup returned %d: %s", resp.StatusCode, payload)
		}

		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
