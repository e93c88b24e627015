// Package relay implements the MUC relay proper: presence-driven
// membership, the chat command grammar, translation dispatch and
// room fan-out, all running against one component stream.
package relay

import (
	"context"
	"log/slog"
	"time"

	"translate-muc/domain"
	"translate-muc/moderation"
	"translate-muc/xmpp"
)

// Options carries the per-session collaborators and knobs.
type Options struct {
	// TranslationService is the address the ad-hoc translate command
	// is sent to.
	TranslationService string
	// TranslationTimeout bounds the IQ round trip; expiry funnels into
	// the same degraded delivery as a malformed response.
	TranslationTimeout time.Duration
	// Guesser enables sender-language detection when non-nil.
	Guesser LanguageGuesser
	// Moderator censors relayed bodies when non-nil.
	Moderator *moderation.Moderator
}

// Session owns the room registry for one component connection and
// pumps inbound stanzas through the handlers, one at a time. All
// membership mutation happens on this loop; translation deliveries
// only read, through the room's lock.
type Session struct {
	host     string
	registry *domain.RoomRegistry
	presence *PresenceHandler
	messages *MessageHandler
	log      *slog.Logger
}

func NewSession(host string, transport xmpp.Transport, opts Options, log *slog.Logger) *Session {
	registry := domain.NewRoomRegistry()
	broadcaster := NewBroadcaster(host, transport, log)
	translator := NewTranslator(host, opts.TranslationService, transport,
		opts.TranslationTimeout, opts.Guesser, broadcaster, log)

	return &Session{
		host:     host,
		registry: registry,
		presence: NewPresenceHandler(host, registry, broadcaster, log),
		messages: NewMessageHandler(host, registry, opts.Moderator, translator, log),
		log:      log,
	}
}

// Registry exposes the session's room state.
func (s *Session) Registry() *domain.RoomRegistry {
	return s.registry
}

// Connected clears all room state; nothing survives across
// connections.
func (s *Session) Connected() {
	s.registry.Reset()
	s.log.Info("Connected, room registry cleared")
}

// Disconnected drops all room state.
func (s *Session) Disconnected() {
	s.registry.Reset()
	s.log.Info("Disconnected, room registry dropped")
}

// Run consumes inbound stanzas until the channel closes or ctx is
// done.
func (s *Session) Run(ctx context.Context, stanzas <-chan xmpp.Stanza) error {
	s.Connected()
	defer s.Disconnected()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st, ok := <-stanzas:
			if !ok {
				return nil
			}
			s.handle(ctx, st)
		}
	}
}

func (s *Session) handle(ctx context.Context, st xmpp.Stanza) {
	switch v := st.(type) {
	case *xmpp.Presence:
		s.presence.Handle(v)
	case *xmpp.Message:
		s.messages.Handle(ctx, v)
	case *xmpp.IQ:
		s.log.Debug("Ignoring unsolicited iq", "from", v.From, "id", v.ID)
	default:
		s.log.Debug("Ignoring unexpected stanza")
	}
}
