package domain

import "sync"

// RoomRegistry maps room name -> Room for one component session.
//
// The registry is owned by the session: it is built fresh when the
// stream comes up and dropped when it goes down, so no room state
// survives a reconnect. Rooms are created lazily on first join and
// kept until the next Reset, even when empty.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the named Room, creating it on first use.
func (r *RoomRegistry) GetOrCreate(name string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[name]
	if !ok {
		room = NewRoom(name)
		r.rooms[name] = room
	}
	return room
}

// Get returns the named Room, or nil when it does not exist.
func (r *RoomRegistry) Get(name string) *Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rooms[name]
}

func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// Reset drops every room. Called on both connect and disconnect.
func (r *RoomRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms = make(map[string]*Room)
}
