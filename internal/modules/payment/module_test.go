package payment

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/saransh1220/coursehub/internal/shared/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateway(t *testing.T) {
	g, err := NewGateway(config.PaymentConfig{Provider: "paypal", PayPal: config.PayPalConfig{BaseURL: config.PayPalSandboxURL}})
	require.NoError(t, err)
	assert.Equal(t, "paypal", g.Name())

	g, err = NewGateway(config.PaymentConfig{Provider: "razorpay"})
	require.NoError(t, err)
	assert.Equal(t, "razorpay", g.Name())

	_, err = NewGateway(config.PaymentConfig{Provider: "stripe"})
	assert.ErrorContains(t, err, "unknown payment provider")
}

func TestNewModule(t *testing.T) {
	m, err := NewModule(&sqlx.DB{}, nil, config.PaymentConfig{Provider: "paypal", Currency: "USD"}, config.JobsConfig{ReconcileBatch: 10}, Collaborators{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Gateway())
	assert.NotNil(t, m.Service())
	assert.NotNil(t, m.Reconciler())
	assert.NotNil(t, m.HTTPHandler())

	_, err = NewModule(&sqlx.DB{}, nil, config.PaymentConfig{Provider: "bogus"}, config.JobsConfig{}, Collaborators{}, nil)
	assert.Error(t, err)
}
