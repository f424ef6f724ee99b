package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestClient(h *Hub, userID uuid.UUID, buffer int) *Client {
	c := &Client{hub: h, send: make(chan []byte, buffer), userID: userID}
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	return c
}

func receive(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case msg := <-c.send:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("expected message")
		return ""
	}
}

func TestHub_SendToUser_AllConnectionsOfUser(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	laptop := newTestClient(h, userID, 1)
	phone := newTestClient(h, userID, 1)
	other := newTestClient(h, uuid.New(), 1)

	go h.Run()
	defer h.Stop()

	h.SendToUser(userID, []byte("purchased"))
	assert.Equal(t, "purchased", receive(t, laptop))
	assert.Equal(t, "purchased", receive(t, phone))

	select {
	case <-other.send:
		t.Fatal("other user should not receive the message")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	slow := newTestClient(h, userID, 0)

	go h.Run()
	defer h.Stop()

	h.SendToUser(userID, []byte("one"))

	select {
	case _, ok := <-slow.send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("slow client was not dropped")
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	userID := uuid.New()
	c := &Client{hub: h, send: make(chan []byte, 1), userID: userID}
	h.register <- c
	h.SendToUser(userID, []byte("hi"))
	assert.Equal(t, "hi", receive(t, c))

	h.unregister <- c
	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("unregister did not close the channel")
	}

	// unregistering twice is harmless
	h.unregister <- c
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, uuid.New(), 1)
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()
	h.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	_, ok := <-c.send
	assert.False(t, ok)

	// no deadlock after stop
	h.SendToUser(uuid.New(), []byte("late"))
}
