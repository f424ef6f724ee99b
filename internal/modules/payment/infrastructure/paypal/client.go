package paypal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

const (
	ProviderName = "paypal"

	tokenPath  = "/v1/oauth2/token"
	ordersPath = "/v2/checkout/orders"

	// refresh the token slightly before PayPal expires it
	tokenSkew = 60 * time.Second
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client is a PayPal Orders v2 gateway
type Client struct {
	http         *resty.Client
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

func (c *Client) Name() string { return ProviderName }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type apiError struct {
	Name             string `json:"name"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) String() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return strings.TrimSpace(e.Name + " " + e.Message)
	}
	return strings.TrimSpace(e.Error + " " + e.ErrorDescription)
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	ReferenceID string  `json:"reference_id,omitempty"`
	CustomID    string  `json:"custom_id,omitempty"`
	Amount      *amount `json:"amount,omitempty"`
	Payments    *struct {
		Captures []struct {
			ID       string  `json:"id"`
			Status   string  `json:"status"`
			CustomID string  `json:"custom_id"`
			Amount   *amount `json:"amount"`
		} `json:"captures"`
	} `json:"payments,omitempty"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

// CreateOrder creates a CAPTURE intent order
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderHandle, error) {
	token, err := c.token(ctx)
	if err != nil {
		return domain.OrderHandle{}, err
	}

	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: req.ReferenceID,
			CustomID:    req.CustomID,
			Amount: &amount{
				CurrencyCode: req.Currency,
				Value:        FormatAmount(req.Amount),
			},
		}},
	}

	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&out).
		SetError(&apiError{}).
		Post(ordersPath)
	if err := classify("create order", resp, err); err != nil {
		return domain.OrderHandle{}, err
	}
	if out.ID == "" {
		return domain.OrderHandle{}, fmt.Errorf("%w: create order returned no id", domain.ErrGatewayRejected)
	}

	return domain.OrderHandle{ID: out.ID, Status: out.Status}, nil
}

// CaptureOrder captures an approved order. An order PayPal reports as already
// captured is read back, so a retry after a failed fulfilment still sees the
// completed capture.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (domain.CaptureResult, error) {
	token, err := c.token(ctx)
	if err != nil {
		return domain.CaptureResult{}, err
	}

	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Prefer", "return=representation").
		SetBody(map[string]any{}).
		SetResult(&out).
		SetError(&apiError{}).
		SetPathParam("id", orderID).
		Post(ordersPath + "/{id}/capture")
	if err := classify("capture order", resp, err); err != nil {
		if !errors.Is(err, domain.ErrGatewayRejected) {
			return domain.CaptureResult{}, err
		}
		order, getErr := c.getOrder(ctx, token, orderID)
		if getErr != nil || order.Status != domain.CaptureCompleted {
			return domain.CaptureResult{}, err
		}
		log.Printf("[PayPal.CaptureOrder] order %s already captured", orderID)
		return captureResult(order), nil
	}
	return captureResult(out), nil
}

func (c *Client) getOrder(ctx context.Context, token, orderID string) (orderResponse, error) {
	var out orderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		SetError(&apiError{}).
		SetPathParam("id", orderID).
		Get(ordersPath + "/{id}")
	if err := classify("get order", resp, err); err != nil {
		return orderResponse{}, err
	}
	return out, nil
}

// captureResult reads the first purchase unit and its first capture
func captureResult(out orderResponse) domain.CaptureResult {
	result := domain.CaptureResult{Status: out.Status}
	if len(out.PurchaseUnits) == 0 {
		return result
	}
	unit := out.PurchaseUnits[0]
	result.ReferenceID = unit.ReferenceID
	result.CustomID = unit.CustomID
	if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
		capture := unit.Payments.Captures[0]
		result.CaptureID = capture.ID
		if result.CustomID == "" {
			result.CustomID = capture.CustomID
		}
		if capture.Amount != nil {
			result.Currency = capture.Amount.CurrencyCode
			result.Amount, _ = strconv.ParseFloat(capture.Amount.Value, 64)
		}
	}
	return result
}

// token returns a cached OAuth2 client_credentials token
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	var out tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&out).
		SetError(&apiError{}).
		Post(tokenPath)
	if err := classify("oauth token", resp, err); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrGatewayRejected)
	}

	c.accessToken = out.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(out.ExpiresIn)*time.Second - tokenSkew)
	return c.accessToken, nil
}

// classify maps transport errors and 5xx to ErrGatewayUnavailable and other
// non-2xx responses to ErrGatewayRejected
func classify(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: paypal %s: %v", domain.ErrGatewayUnavailable, op, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	detail := resp.Status()
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.String() != "" {
		detail = apiErr.String()
	}
	if resp.StatusCode() >= 500 {
		return fmt.Errorf("%w: paypal %s: %s", domain.ErrGatewayUnavailable, op, detail)
	}
	return fmt.Errorf("%w: paypal %s: %s", domain.ErrGatewayRejected, op, detail)
}

// FormatAmount renders an amount the way the Orders API expects it ("49.99")
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
