package card_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/jonanatree/securitycard/card"
	"github.com/jonanatree/securitycard/card/models"
)

type fakeConn struct {
	events  []models.Event
	failing bool
	closed  bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.failing {
		return fmt.Errorf("connection reset")
	}
	c.events = append(c.events, v.(models.Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard))
}

func TestHubBroadcast(t *testing.T) {
	hub := card.NewHub(testLogger())

	a, b := &fakeConn{}, &fakeConn{}
	hub.Register(a)
	hub.Register(b)
	require.Equal(t, 2, hub.Len())

	hub.Broadcast(models.Event{Type: models.EventSecretUpdate, NewSecret: "123"})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	require.Equal(t, "123", a.events[0].NewSecret)
}

func TestHubBroadcastPrunesFailedConnection(t *testing.T) {
	hub := card.NewHub(testLogger())

	healthy, failing := &fakeConn{}, &fakeConn{failing: true}
	hub.Register(healthy)
	hub.Register(failing)

	// A failing connection must not block delivery to the healthy one and
	// must be removed within the same call.
	hub.Broadcast(models.Event{Type: models.EventSecretUpdate, NewSecret: "001"})

	require.Len(t, healthy.events, 1)
	require.Empty(t, failing.events)
	require.True(t, failing.closed)
	require.Equal(t, 1, hub.Len())

	// The pruned connection sees no subsequent broadcasts.
	hub.Broadcast(models.Event{Type: models.EventSecretUpdate, NewSecret: "002"})
	require.Len(t, healthy.events, 2)
	require.Empty(t, failing.events)
}

func TestHubBroadcastOrderPerConnection(t *testing.T) {
	hub := card.NewHub(testLogger())

	c := &fakeConn{}
	hub.Register(c)

	for i := 0; i < 5; i++ {
		hub.Broadcast(models.Event{Type: models.EventSecretUpdate, NewSecret: fmt.Sprintf("%03d", i)})
	}

	require.Len(t, c.events, 5)
	for i, ev := range c.events {
		require.Equal(t, fmt.Sprintf("%03d", i), ev.NewSecret)
	}
}

func TestHubUnregister(t *testing.T) {
	hub := card.NewHub(testLogger())

	c := &fakeConn{}
	hub.Register(c)
	hub.Unregister(c)

	hub.Broadcast(models.Event{Type: models.EventSecretUpdate})
	require.Empty(t, c.events)
	require.Equal(t, 0, hub.Len())
}

func TestHubClose(t *testing.T) {
	hub := card.NewHub(testLogger())

	a, b := &fakeConn{}, &fakeConn{}
	hub.Register(a)
	hub.Register(b)

	hub.Close()

	require.True(t, a.closed)
	require.True(t, b.closed)
	require.Equal(t, 0, hub.Len())
}
