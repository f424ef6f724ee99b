package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saransh1220/coursehub/internal/modules/notification/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receipt() domain.PurchaseReceipt {
	return domain.PurchaseReceipt{
		Email:       "ada@example.com",
		Name:        "Ada",
		CourseTitle: "Go <Advanced>",
		OrderID:     "ORDER-1",
		Amount:      49.99,
		Currency:    "USD",
	}
}

func TestSendGridMailer_Disabled(t *testing.T) {
	m := NewSendGridMailer(Config{FromEmail: "no-reply@example.com"})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.SendReceipt(context.Background(), receipt()))
}

func TestSendGridMailer_SendReceipt(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	m := NewSendGridMailer(Config{APIKey: "SG.test", FromEmail: "no-reply@example.com", FromName: "CourseHub", Host: ts.URL})
	require.True(t, m.Enabled())
	require.NoError(t, m.SendReceipt(context.Background(), receipt()))

	assert.Equal(t, "Your receipt for Go <Advanced>", payload["subject"])
	from := payload["from"].(map[string]any)
	assert.Equal(t, "no-reply@example.com", from["email"])
}

func TestSendGridMailer_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer ts.Close()

	m := NewSendGridMailer(Config{APIKey: "SG.bad", Host: ts.URL})
	err := m.SendReceipt(context.Background(), receipt())
	assert.ErrorContains(t, err, "status=401")

	// no address, nothing to send
	r := receipt()
	r.Email = ""
	assert.NoError(t, m.SendReceipt(context.Background(), r))
}

func TestReceiptBodies(t *testing.T) {
	r := receipt()
	assert.Contains(t, plainReceipt(r), "49.99 USD")
	assert.Contains(t, htmlReceipt(r), "Go &lt;Advanced&gt;")
}
