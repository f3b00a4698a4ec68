package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
	"github.com/hamzat06/esk-sub000/internal/config"
	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

// LineItem is one row on the hosted payment page. Amounts are minor currency
// units (cents) because that is what the provider's API takes.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionParams describes a hosted checkout session to create. Metadata must
// carry the local order id so webhook events can be correlated back.
type SessionParams struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// Session is the provider's created hosted-checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to the hosted-payment provider's REST API. The provider
// exposes a form-encoded session-create endpoint authenticated with the
// account's secret key.
type Client struct {
	baseURL   string
	secretKey string
	currency  string
	http      *http.Client
	log       *logger.Logger
}

func NewClient(cfg config.PaymentConfig) (*Client, error) {
	log := logger.New("payments")

	if cfg.SecretKey == "" {
		return nil, log.Error("payment client misconfigured", fmt.Errorf("secret key is empty"))
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		secretKey: cfg.SecretKey,
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}, nil
}

// CreateSession creates a hosted checkout session and returns its id and the
// redirect URL for the customer.
func (c *Client) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", c.currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", fmt.Sprintf("%d", item.UnitAmount))
		form.Set(prefix+"[quantity]", fmt.Sprintf("%d", item.Quantity))
	}

	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.ExternalService("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ExternalService("reading payment provider response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Session create failed with status %d: %s", resp.StatusCode, string(body))
		return nil, apperrors.ExternalService(
			fmt.Sprintf("payment provider returned %d", resp.StatusCode), nil)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, apperrors.ExternalService("decoding payment provider response", err)
	}

	c.log.Success("Created checkout session %s", session.ID)
	return &session, nil
}
