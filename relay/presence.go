package relay

import (
	"log/slog"

	"translate-muc/domain"
	"translate-muc/xmpp"
)

// PresenceHandler drives the per-participant join/leave state machine.
// A participant is either absent or present, nothing in between.
type PresenceHandler struct {
	host        string
	registry    *domain.RoomRegistry
	broadcaster *Broadcaster
	log         *slog.Logger
}

func NewPresenceHandler(host string, registry *domain.RoomRegistry, broadcaster *Broadcaster, log *slog.Logger) *PresenceHandler {
	return &PresenceHandler{host: host, registry: registry, broadcaster: broadcaster, log: log}
}

func (h *PresenceHandler) Handle(p *xmpp.Presence) {
	switch p.Type {
	case xmpp.PresenceAvailable:
		h.available(p)
	case xmpp.PresenceUnavailable:
		h.unavailable(p)
	default:
		// subscriptions, probes, errors: acknowledged in logs only
		h.log.Debug("Ignoring presence", "type", p.Type, "from", p.From)
	}
}

func (h *PresenceHandler) available(p *xmpp.Presence) {
	roomName, nick, err := splitTarget(p.To, h.host)
	if err != nil {
		h.log.Warn("Dropping presence", "error", err)
		return
	}
	identity, err := senderIdentity(p.From)
	if err != nil {
		h.log.Warn("Dropping presence", "error", err)
		return
	}

	room := h.registry.GetOrCreate(roomName)
	room.Join(identity, nick)
	h.log.Info("Participant joined", "room", roomName, "nick", nick)

	// One announcement reaches every current member, the newcomer
	// included: that is how they learn they are in.
	h.broadcaster.Presence(room, nick, xmpp.PresenceAvailable)
}

func (h *PresenceHandler) unavailable(p *xmpp.Presence) {
	roomName, nick, err := splitTarget(p.To, h.host)
	if err != nil {
		h.log.Warn("Dropping presence", "error", err)
		return
	}
	identity, err := senderIdentity(p.From)
	if err != nil {
		h.log.Warn("Dropping presence", "error", err)
		return
	}

	room := h.registry.Get(roomName)
	if room == nil {
		h.log.Warn("Unavailable presence for unknown room", "room", roomName)
		return
	}

	// Announce before removal so the leaver still sees the goodbye.
	h.broadcaster.Presence(room, nick, xmpp.PresenceUnavailable)
	room.Leave(identity)
	h.log.Info("Participant left", "room", roomName, "nick", nick)
}
