package hub

import (
	"context"
	"testing"
	"time"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/stretchr/testify/assert"
)

func TestHub_BroadcastToSubscribers(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	send := make(chan []byte, 16)
	h.subscribe <- send

	err := h.Publish(context.TODO(), notify.Event{
		Type:       notify.EventOperationApplied,
		DocumentID: "doc-1",
	})
	assert.NoError(t, err)

	select {
	case msg := <-send:
		assert.Contains(t, string(msg), notify.EventOperationApplied)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub()

	stopped := make(chan struct{})
	go func() {
		h.Run()
		close(stopped)
	}()

	send := make(chan []byte, 16)
	h.subscribe <- send

	h.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("run did not return after stop")
	}

	// the client channel is closed on the way out
	select {
	case _, ok := <-send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}

	// publishing after stop is a no-op, not a deadlock
	err := h.Publish(context.TODO(), notify.Event{Type: notify.EventDocumentLocked})
	assert.NoError(t, err)
}
