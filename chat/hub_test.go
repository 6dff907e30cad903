package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesOnlyChatMembers(t *testing.T) {
	h := NewHub()

	a := &Client{ID: "a", UserID: 1, Role: "Patient", ChatID: "appointment:APT-1", Send: make(chan []byte, 1)}
	b := &Client{ID: "b", UserID: 2, Role: "Doctor", ChatID: "appointment:APT-1", Send: make(chan []byte, 1)}
	other := &Client{ID: "c", UserID: 3, Role: "Patient", ChatID: "appointment:APT-2", Send: make(chan []byte, 1)}

	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.Broadcast("appointment:APT-1", []byte("hello"))

	assert.Equal(t, []byte("hello"), <-a.Send)
	assert.Equal(t, []byte("hello"), <-b.Send)
	assert.Empty(t, other.Send)
}

func TestBroadcastSkipsFullBuffers(t *testing.T) {
	h := NewHub()

	full := &Client{ID: "full", ChatID: "c", Send: make(chan []byte, 1)}
	full.Send <- []byte("backlog")
	h.Register(full)

	// Must not block even though the buffer is full.
	h.Broadcast("c", []byte("new"))
	assert.Equal(t, []byte("backlog"), <-full.Send)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	c := &Client{ID: "x", ChatID: "c", Send: make(chan []byte, 1)}
	h.Register(c)
	h.Unregister(c)

	_, open := <-c.Send
	require.False(t, open)

	// Double unregister is a no-op, not a panic.
	h.Unregister(c)
}

func TestDoctorPresence(t *testing.T) {
	h := NewHub()
	assert.False(t, h.DoctorOnline(7))

	first := &Client{ID: "d1", UserID: 7, Role: "Doctor", ChatID: "c", Send: make(chan []byte, 1)}
	second := &Client{ID: "d2", UserID: 7, Role: "Doctor", ChatID: "c", Send: make(chan []byte, 1)}
	h.Register(first)
	h.Register(second)
	assert.True(t, h.DoctorOnline(7))

	h.Unregister(first)
	assert.True(t, h.DoctorOnline(7))
	h.Unregister(second)
	assert.False(t, h.DoctorOnline(7))
}
