package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
)

var (
	purchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursehub_purchases_total",
		Help: "Purchase attempts by outcome.",
	}, []string{"outcome"})

	gatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursehub_gateway_request_duration_seconds",
		Help:    "Latency of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation", "result"})
)

// Recorder counts purchase outcomes
type Recorder struct{}

func (Recorder) Purchase(outcome string) {
	purchasesTotal.WithLabelValues(outcome).Inc()
}

// InstrumentedGateway times every call to the wrapped gateway
type InstrumentedGateway struct {
	next domain.Gateway
}

func NewInstrumentedGateway(next domain.Gateway) *InstrumentedGateway {
	return &InstrumentedGateway{next: next}
}

func (g *InstrumentedGateway) Name() string { return g.next.Name() }

func (g *InstrumentedGateway) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderHandle, error) {
	start := time.Now()
	h, err := g.next.CreateOrder(ctx, req)
	g.observe("create_order", start, err)
	return h, err
}

func (g *InstrumentedGateway) CaptureOrder(ctx context.Context, orderID string) (domain.CaptureResult, error) {
	start := time.Now()
	res, err := g.next.CaptureOrder(ctx, orderID)
	g.observe("capture_order", start, err)
	return res, err
}

func (g *InstrumentedGateway) observe(op string, start time.Time, err error) {
	gatewayDuration.WithLabelValues(g.next.Name(), op, resultLabel(err)).Observe(time.Since(start).Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrGatewayRejected):
		return "rejected"
	default:
		return "unavailable"
	}
}
