// Package domain contains core concepts of the MUC relay:
// participants, rooms, the per-session room registry and the chat
// command grammar. No network or stanza logic lives here.
package domain

// Participant is one occupant of a Room.
//
// Identity is the stable, room-independent address of the occupant
// (their full JID). Nickname is the room-local name chosen at join
// time. Language stays empty until the occupant picks one with /lang
// (or detection fills it in); it is an ISO-ish tag and is not
// validated.
type Participant struct {
	Identity string
	Nickname string
	Language string
}

// HasLanguage reports whether the participant takes part in
// translated fan-out.
func (p Participant) HasLanguage() bool {
	return p.Language != ""
}
