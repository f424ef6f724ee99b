package razorpay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

const ProviderName = "razorpay"

// Gateway adapts Razorpay orders to the payment domain. Razorpay works in
// minor units, so amounts are multiplied by 100 on the way out.
type Gateway struct {
	client *razorpay.Client
}

func NewGateway(keyID, keySecret string) *Gateway {
	return &Gateway{client: razorpay.NewClient(keyID, keySecret)}
}

// SetBaseURL points the client at a different API host
func (g *Gateway) SetBaseURL(url string) {
	g.client.Request.BaseURL = url
}

func (g *Gateway) Name() string { return ProviderName }

func (g *Gateway) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderHandle, error) {
	if err := ctx.Err(); err != nil {
		return domain.OrderHandle{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	data := map[string]interface{}{
		"amount":   toMinor(req.Amount),
		"currency": req.Currency,
		"receipt":  receipt(req.ReferenceID),
		"notes": map[string]interface{}{
			"course_id": req.ReferenceID,
			"user_id":   req.CustomID,
		},
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return domain.OrderHandle{}, classify("create order", err)
	}

	id, _ := order["id"].(string)
	if id == "" {
		return domain.OrderHandle{}, fmt.Errorf("%w: create order returned no id", domain.ErrGatewayRejected)
	}
	status, _ := order["status"].(string)
	return domain.OrderHandle{ID: id, Status: strings.ToUpper(status)}, nil
}

// CaptureOrder looks up the payments made against an order. An authorized
// payment is captured here; a captured one is reported as completed.
func (g *Gateway) CaptureOrder(ctx context.Context, orderID string) (domain.CaptureResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.CaptureResult{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	order, err := g.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return domain.CaptureResult{}, classify("fetch order", err)
	}

	result := domain.CaptureResult{
		Amount:   fromMinor(order["amount"]),
		Currency: stringField(order, "currency"),
	}
	if notes, ok := order["notes"].(map[string]interface{}); ok {
		result.ReferenceID, _ = notes["course_id"].(string)
		result.CustomID, _ = notes["user_id"].(string)
	}

	payments, err := g.client.Order.Payments(orderID, nil, nil)
	if err != nil {
		return domain.CaptureResult{}, classify("list payments", err)
	}
	items, _ := payments["items"].([]interface{})

	var last map[string]interface{}
	for _, item := range items {
		p, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		switch stringField(p, "status") {
		case "captured":
			result.Status = domain.CaptureCompleted
			result.CaptureID = stringField(p, "id")
			return result, nil
		case "authorized":
			return g.capture(p, result)
		}
		last = p
	}

	if last != nil {
		result.Status = strings.ToUpper(stringField(last, "status"))
	} else {
		result.Status = strings.ToUpper(stringField(order, "status"))
	}
	return result, nil
}

func (g *Gateway) capture(payment map[string]interface{}, result domain.CaptureResult) (domain.CaptureResult, error) {
	id := stringField(payment, "id")
	amount := int(math.Round(toFloat(payment["amount"])))
	currency := stringField(payment, "currency")
	if currency == "" {
		currency = result.Currency
	}

	captured, err := g.client.Payment.Capture(id, amount, map[string]interface{}{"currency": currency}, nil)
	if err != nil {
		return domain.CaptureResult{}, classify("capture payment", err)
	}

	result.CaptureID = id
	result.Status = strings.ToUpper(stringField(captured, "status"))
	if result.Status == "CAPTURED" {
		result.Status = domain.CaptureCompleted
	}
	return result, nil
}

// classify treats Razorpay's bad request errors as rejections and anything
// else (server errors, transport failures, unreadable bodies) as unavailability
func classify(op string, err error) error {
	var badRequest *rzperrors.BadRequestError
	if errors.As(err, &badRequest) {
		return fmt.Errorf("%w: razorpay %s: %v", domain.ErrGatewayRejected, op, err)
	}
	return fmt.Errorf("%w: razorpay %s: %v", domain.ErrGatewayUnavailable, op, err)
}

// receipt is capped at 40 characters by Razorpay
func receipt(ref string) string {
	r := "course_" + ref
	if len(r) > 40 {
		r = r[:40]
	}
	return r
}

func toMinor(amount float64) int {
	return int(math.Round(amount * 100))
}

func fromMinor(v interface{}) float64 {
	return toFloat(v) / 100
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
