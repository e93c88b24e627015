package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"translate-muc/domain"
	"translate-muc/moderation"
	"translate-muc/xmpp"
)

type messageFixture struct {
	handler   *MessageHandler
	registry  *domain.RoomRegistry
	transport *fakeTransport
}

func newMessageFixture(t *testing.T, moderated bool) *messageFixture {
	t.Helper()
	log := testLogger()
	transport := &fakeTransport{}
	registry := domain.NewRoomRegistry()
	broadcaster := NewBroadcaster(testHost, transport, log)
	translator := NewTranslator(testHost, testService, transport,
		100*time.Millisecond, nil, broadcaster, log)

	var moderator *moderation.Moderator
	if moderated {
		var err error
		moderator, err = moderation.New([]string{"badger"}, '*', log)
		require.NoError(t, err)
	}
	return &messageFixture{
		handler:   NewMessageHandler(testHost, registry, moderator, translator, log),
		registry:  registry,
		transport: transport,
	}
}

func (f *messageFixture) lobby(t *testing.T) *domain.Room {
	t.Helper()
	room := f.registry.GetOrCreate("lobby")
	room.Join(aliceJID, "alice")
	room.Join(bobJID, "bob")
	require.NoError(t, room.SetLanguage(aliceJID, "en"))
	require.NoError(t, room.SetLanguage(bobJID, "fr"))
	return room
}

func groupchat(from, to, body string) *xmpp.Message {
	return &xmpp.Message{From: from, To: to, Type: xmpp.MessageGroupChat, Body: body}
}

func TestMessageHandler_Lang_Command_Sets_Language_Silently(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, false)
	room := f.lobby(t)

	// When alice switches her language
	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "lobby@translate.example.net", "/lang fr"))

	// Then the selection changed and nothing was broadcast
	lang, err := room.LanguageOf(aliceJID)
	req.NoError(err)
	req.Equal("fr", lang)
	req.Empty(f.transport.sentMessages())
	req.Empty(f.transport.sentRequests())
}

func TestMessageHandler_Unknown_Command_Is_A_NoOp(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, false)
	f.lobby(t)

	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "lobby@translate.example.net", "/dance"))

	req.Empty(f.transport.sentMessages())
	req.Empty(f.transport.sentRequests())
}

func TestMessageHandler_Relays_Through_Translation(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, false)
	f.lobby(t)
	f.transport.respond = func(_ context.Context, iq xmpp.IQ) (xmpp.IQ, error) {
		return translationResult(iq.ID, map[string]string{"fr": "salut"}), nil
	}

	// When alice sends a plain chat line
	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "lobby@translate.example.net", "hi"))

	// Then bob eventually receives the translated copy
	req.Eventually(func() bool {
		return len(f.transport.messagesTo(bobJID)) == 1
	}, time.Second, 5*time.Millisecond)
	req.Equal("salut", f.transport.messagesTo(bobJID)[0].Body)
	req.Empty(f.transport.messagesTo(aliceJID))
}

func TestMessageHandler_Censors_Before_Relaying(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, true)
	f.lobby(t)
	f.transport.respond = func(_ context.Context, iq xmpp.IQ) (xmpp.IQ, error) {
		text, _ := iq.Command.Form.Value("text")
		return translationResult(iq.ID, map[string]string{"fr": text}), nil
	}

	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "lobby@translate.example.net", "look, a badger!"))

	// The censored body is what reaches the service and the room.
	req.Eventually(func() bool {
		return len(f.transport.messagesTo(bobJID)) == 1
	}, time.Second, 5*time.Millisecond)
	req.Equal("look, a ******!", f.transport.messagesTo(bobJID)[0].Body)
	requests := f.transport.sentRequests()
	req.Len(requests, 1)
	text, _ := requests[0].Command.Form.Value("text")
	req.Equal("look, a ******!", text)
}

func TestMessageHandler_Commands_Are_Never_Censored(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, true)
	room := f.lobby(t)

	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "lobby@translate.example.net", "/lang badger"))

	// The command grammar saw the raw body, stars and all.
	lang, err := room.LanguageOf(aliceJID)
	req.NoError(err)
	req.Equal("badger", lang)
}

func TestMessageHandler_Drops_Non_Members(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, false)
	f.lobby(t)

	f.handler.Handle(context.Background(), groupchat(
		"mallory@example.net/x", "lobby@translate.example.net", "hi"))

	req.Empty(f.transport.sentMessages())
	req.Empty(f.transport.sentRequests())
}

func TestMessageHandler_Drops_Unknown_Rooms(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, false)

	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "ghost@translate.example.net", "hi"))

	req.Nil(f.registry.Get("ghost"))
	req.Empty(f.transport.sentMessages())
}

func TestMessageHandler_Ignores_Non_Groupchat_And_Empty_Bodies(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t, false)
	f.lobby(t)

	f.handler.Handle(context.Background(), &xmpp.Message{
		From: aliceJID, To: "lobby@translate.example.net", Type: "chat", Body: "psst",
	})
	f.handler.Handle(context.Background(), groupchat(
		aliceJID, "lobby@translate.example.net", ""))

	req.Empty(f.transport.sentMessages())
	req.Empty(f.transport.sentRequests())
}
