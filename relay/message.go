package relay

import (
	"context"
	"log/slog"

	"translate-muc/domain"
	"translate-muc/moderation"
	"translate-muc/xmpp"
)

// MessageHandler routes inbound groupchat bodies: the command grammar
// first, then moderation, then translation dispatch.
type MessageHandler struct {
	host       string
	registry   *domain.RoomRegistry
	moderator  *moderation.Moderator
	translator *Translator
	log        *slog.Logger
}

// NewMessageHandler wires the groupchat path. moderator may be nil
// when moderation is disabled.
func NewMessageHandler(host string, registry *domain.RoomRegistry, moderator *moderation.Moderator,
	translator *Translator, log *slog.Logger) *MessageHandler {
	return &MessageHandler{
		host:       host,
		registry:   registry,
		moderator:  moderator,
		translator: translator,
		log:        log,
	}
}

func (h *MessageHandler) Handle(ctx context.Context, m *xmpp.Message) {
	if m.Type != xmpp.MessageGroupChat || m.Body == "" {
		h.log.Debug("Ignoring message", "type", m.Type, "from", m.From)
		return
	}

	roomName, _, err := splitTarget(m.To, h.host)
	if err != nil {
		h.log.Warn("Dropping message", "error", err)
		return
	}
	identity, err := senderIdentity(m.From)
	if err != nil {
		h.log.Warn("Dropping message", "error", err)
		return
	}

	room := h.registry.Get(roomName)
	if room == nil {
		h.log.Warn("Message for unknown room", "room", roomName)
		return
	}
	nick, err := room.NicknameOf(identity)
	if err != nil {
		h.log.Warn("Message from non-member", "room", roomName, "from", m.From, "error", err)
		return
	}

	if cmd, ok := domain.ParseCommand(m.Body); ok {
		h.command(room, identity, cmd)
		return
	}

	body := m.Body
	if h.moderator != nil {
		var matched []string
		body, matched = h.moderator.Censor(body)
		if len(matched) > 0 {
			h.log.Info("Censored message body", "room", roomName, "nick", nick, "matches", len(matched))
		}
	}

	// The translation round trip suspends; run it off the session loop
	// so other rooms keep making progress.
	go h.translator.Dispatch(ctx, room, identity, nick, body)
}

// command applies a parsed chat command. Failures are logged and
// swallowed; the sender gets no broadcast for this turn either way.
func (h *MessageHandler) command(room *domain.Room, identity string, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.SetLanguage:
		if err := room.SetLanguage(identity, c.Tag); err != nil {
			h.log.Warn("Language change rejected", "room", room.Name, "error", err)
			return
		}
		h.log.Info("Language set", "room", room.Name, "language", c.Tag)
	case domain.Unknown:
		h.log.Warn("Unknown command", "room", room.Name, "body", c.Raw)
	}
}
