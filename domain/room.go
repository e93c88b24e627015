package domain

import (
	"sync"

	"github.com/samber/lo"

	"translate-muc/errors"
)

// Room tracks the occupants of one MUC room, keyed by identity.
// Invariant: at most one Participant per identity. A repeated Join for
// an identity that is already present is a no-op, so the first-seen
// nickname and language win.
//
// Mutation happens on the session loop; translated deliveries read the
// membership from their own goroutine, hence the RWMutex.
type Room struct {
	Name string

	mu      sync.RWMutex
	members map[string]Participant
}

func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[string]Participant),
	}
}

// Join inserts a Participant for identity. Joining while already
// present changes nothing, not even the stored nickname.
func (r *Room) Join(identity, nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[identity]; ok {
		return
	}
	r.members[identity] = Participant{Identity: identity, Nickname: nickname}
}

// Leave removes the Participant for identity, if any.
func (r *Room) Leave(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.members, identity)
}

// SetLanguage mutates the language of an existing Participant.
// Returns ErrNotAMember when identity is not in the room.
func (r *Room) SetLanguage(identity, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.members[identity]
	if !ok {
		return errors.ErrNotAMember
	}
	p.Language = language
	r.members[identity] = p
	return nil
}

func (r *Room) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

// NicknameOf resolves an identity to its room nickname.
// Returns ErrNotFound when identity is not in the room.
func (r *Room) NicknameOf(identity string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.members[identity]
	if !ok {
		return "", errors.ErrNotFound
	}
	return p.Nickname, nil
}

// LanguageOf resolves an identity to its selected language (possibly
// empty). Returns ErrNotFound when identity is not in the room.
func (r *Room) LanguageOf(identity string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.members[identity]
	if !ok {
		return "", errors.ErrNotFound
	}
	return p.Language, nil
}

// Participants returns a snapshot of the current membership.
// Order is not significant.
func (r *Room) Participants() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Values(r.members)
}

// GroupByLanguage derives language -> participants speaking it.
// Participants with no language set appear in no group and therefore
// never receive translated fan-out.
func (r *Room) GroupByLanguage() map[string][]Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[string][]Participant)
	for _, p := range r.members {
		if !p.HasLanguage() {
			continue
		}
		groups[p.Language] = append(groups[p.Language], p)
	}
	return groups
}
