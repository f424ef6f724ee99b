package metrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/saransh1220/coursehub/internal/modules/payment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	err error
}

func (s stubGateway) Name() string { return "stub" }

func (s stubGateway) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderHandle, error) {
	return domain.OrderHandle{ID: "O-1"}, s.err
}

func (s stubGateway) CaptureOrder(ctx context.Context, orderID string) (domain.CaptureResult, error) {
	return domain.CaptureResult{Status: domain.CaptureCompleted}, s.err
}

func TestRecorder_Purchase(t *testing.T) {
	before := testutil.ToFloat64(purchasesTotal.WithLabelValues(domain.OutcomeMismatch))
	Recorder{}.Purchase(domain.OutcomeMismatch)
	assert.Equal(t, before+1, testutil.ToFloat64(purchasesTotal.WithLabelValues(domain.OutcomeMismatch)))
}

func TestInstrumentedGateway_PassesThrough(t *testing.T) {
	g := NewInstrumentedGateway(stubGateway{})
	assert.Equal(t, "stub", g.Name())

	h, err := g.CreateOrder(context.Background(), domain.OrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, "O-1", h.ID)

	res, err := g.CaptureOrder(context.Background(), "O-1")
	require.NoError(t, err)
	assert.True(t, res.Completed())

	failing := NewInstrumentedGateway(stubGateway{err: fmt.Errorf("%w: boom", domain.ErrGatewayUnavailable)})
	_, err = failing.CaptureOrder(context.Background(), "O-1")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "rejected", resultLabel(domain.ErrGatewayRejected))
	assert.Equal(t, "unavailable", resultLabel(domain.ErrGatewayUnavailable))
}
