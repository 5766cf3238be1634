package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, matchId, viewerId string, buffer int) *Client {
	return &Client{
		hub:      hub,
		matchId:  matchId,
		viewerId: viewerId,
		send:     make(chan []byte, buffer),
	}
}

func receiveOrTimeout(t *testing.T, ch chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting on send channel")
		return nil, false
	}
}

func TestHubBroadcastDeliversToViewers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, "match-1", "alice", 4)
	bob := newTestClient(hub, "match-1", "bob", 4)
	other := newTestClient(hub, "match-2", "carol", 4)
	hub.register <- alice
	hub.register <- bob
	hub.register <- other

	hub.BroadcastToMatch("match-1", []byte("rack update"), "")

	msg, ok := receiveOrTimeout(t, alice.send)
	require.True(t, ok)
	assert.Equal(t, "rack update", string(msg))
	msg, ok = receiveOrTimeout(t, bob.send)
	require.True(t, ok)
	assert.Equal(t, "rack update", string(msg))

	select {
	case msg := <-other.send:
		t.Fatalf("viewer of another match received %q", msg)
	default:
	}
}

func TestHubBroadcastSkipsExcludedViewer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	scorer := newTestClient(hub, "match-1", "scorer", 4)
	viewer := newTestClient(hub, "match-1", "viewer", 4)
	hub.register <- scorer
	hub.register <- viewer

	hub.BroadcastToMatch("match-1", []byte("score"), "scorer")

	msg, ok := receiveOrTimeout(t, viewer.send)
	require.True(t, ok)
	assert.Equal(t, "score", string(msg))

	select {
	case msg := <-scorer.send:
		t.Fatalf("excluded viewer received %q", msg)
	default:
	}
}

// A viewer whose send buffer is full gets evicted during broadcast. The
// eviction mutates the viewer map, so the broadcast path must hold the
// write lock.
func TestHubBroadcastEvictsSlowViewer(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	fast := newTestClient(hub, "match-1", "fast", 4)
	slow := newTestClient(hub, "match-1", "slow", 1)
	slow.send <- []byte("backlog") // full buffer, next delivery cannot land
	hub.register <- fast
	hub.register <- slow

	hub.BroadcastToMatch("match-1", []byte("update"), "")

	msg, ok := receiveOrTimeout(t, fast.send)
	require.True(t, ok)
	assert.Equal(t, "update", string(msg))

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, present := hub.matches["match-1"]["slow"]
		return !present
	}, 2*time.Second, 10*time.Millisecond, "slow viewer was not evicted")

	// The evicted viewer's channel drains its backlog, then reads closed.
	msg, ok = receiveOrTimeout(t, slow.send)
	require.True(t, ok)
	assert.Equal(t, "backlog", string(msg))
	_, ok = receiveOrTimeout(t, slow.send)
	assert.False(t, ok, "expected slow viewer's send channel to be closed")
}

func TestHubUnregisterRemovesEmptyMatch(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "match-1", "alice", 4)
	hub.register <- client
	hub.unregister <- client

	_, ok := receiveOrTimeout(t, client.send)
	assert.False(t, ok, "expected send channel to be closed on unregister")

	hub.mu.RLock()
	_, present := hub.matches["match-1"]
	hub.mu.RUnlock()
	assert.False(t, present, "match entry should be dropped with its last viewer")
}
