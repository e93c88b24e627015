package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomRegistry_Lazy_Creation(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry()

	// Given no room exists yet
	req.Nil(registry.Get("lobby"))
	req.Equal(0, registry.Len())

	// When a room is first requested
	room := registry.GetOrCreate("lobby")

	// Then the same instance is returned from now on
	req.NotNil(room)
	req.Equal("lobby", room.Name)
	req.Same(room, registry.GetOrCreate("lobby"))
	req.Same(room, registry.Get("lobby"))
	req.Equal(1, registry.Len())
}

func TestRoomRegistry_Reset_Drops_Everything(t *testing.T) {
	req := require.New(t)
	registry := NewRoomRegistry()

	// Given two rooms with members
	registry.GetOrCreate("lobby").Join(memberJID(), "alice")
	registry.GetOrCreate("ops").Join(memberJID(), "bob")
	req.Equal(2, registry.Len())

	// When the session resets (connect or disconnect)
	registry.Reset()

	// Then no room survives
	req.Equal(0, registry.Len())
	req.Nil(registry.Get("lobby"))
	req.Nil(registry.Get("ops"))
}
