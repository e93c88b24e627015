package relay

import (
	"fmt"
	"log/slog"

	"translate-muc/domain"
	"translate-muc/xmpp"
)

// Every occupant the relay announces is a plain participant; MUC
// affiliations are not modelled.
const (
	affiliationNone = "none"
	roleParticipant = "participant"
)

// Broadcaster fans stanzas out to the current membership of a room.
// No batching, no dedup: one outbound delivery per member, in whatever
// order the membership snapshot comes back. Membership is read at the
// moment of broadcast; a join or leave landing mid-loop is not seen by
// that broadcast.
type Broadcaster struct {
	host   string
	sender xmpp.Sender
	log    *slog.Logger
}

func NewBroadcaster(host string, sender xmpp.Sender, log *slog.Logger) *Broadcaster {
	return &Broadcaster{host: host, sender: sender, log: log}
}

// Presence announces nick's availability state to every current member
// of the room, the announcing occupant included.
func (b *Broadcaster) Presence(room *domain.Room, nick, presenceType string) {
	from := occupantJID(room.Name, b.host, nick)
	for _, member := range room.Participants() {
		p := xmpp.Presence{
			From: from,
			To:   member.Identity,
			Type: presenceType,
			MUCUser: &xmpp.MUCUser{
				Item: xmpp.MUCItem{Affiliation: affiliationNone, Role: roleParticipant},
			},
		}
		if err := b.sender.Send(p); err != nil {
			b.log.Warn("Presence delivery failed", "to", member.Identity, "error", err)
		}
	}
}

// Message relays content to every current member, attributed to nick.
func (b *Broadcaster) Message(room *domain.Room, nick, content string) {
	for _, member := range room.Participants() {
		b.One(member.Identity, room.Name, nick, content)
	}
}

// One sends a single relayed groupchat message to recipient, rewritten
// to originate from the room occupant and carrying the speaker's
// nickname extension.
func (b *Broadcaster) One(recipient, roomName, nick, content string) {
	m := xmpp.Message{
		From: occupantJID(roomName, b.host, nick),
		To:   recipient,
		Type: xmpp.MessageGroupChat,
		Body: content,
		Nick: &xmpp.Nick{Value: nick},
	}
	if err := b.sender.Send(m); err != nil {
		b.log.Warn("Message delivery failed", "to", recipient, "error", err)
	}
}

// Notice sends a system message from the room's bare address to one
// recipient only.
func (b *Broadcaster) Notice(recipient, roomName, content string) {
	m := xmpp.Message{
		From: fmt.Sprintf("%s@%s", roomName, b.host),
		To:   recipient,
		Type: xmpp.MessageGroupChat,
		Body: content,
	}
	if err := b.sender.Send(m); err != nil {
		b.log.Warn("Notice delivery failed", "to", recipient, "error", err)
	}
}

func occupantJID(room, host, nick string) string {
	return fmt.Sprintf("%s@%s/%s", room, host, nick)
}
