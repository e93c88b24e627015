package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mama165/sdk-go/logs"

	"translate-muc/errors"
	"translate-muc/xmpp"
)

const (
	testHost    = "translate.example.net"
	testService = "translator.example.net"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

// fakeTransport records everything the relay sends and scripts the
// translation round trip. respond receives the round trip's context so
// scripts can block until the caller's deadline fires.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []any
	requests []xmpp.IQ
	respond  func(ctx context.Context, iq xmpp.IQ) (xmpp.IQ, error)
}

func (f *fakeTransport) Send(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, v)
	return nil
}

func (f *fakeTransport) RoundTrip(ctx context.Context, iq xmpp.IQ) (xmpp.IQ, error) {
	f.mu.Lock()
	f.requests = append(f.requests, iq)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return xmpp.IQ{}, errors.ErrTranslationFailed
	}
	return respond(ctx, iq)
}

func (f *fakeTransport) sentMessages() []xmpp.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []xmpp.Message
	for _, v := range f.sent {
		if m, ok := v.(xmpp.Message); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) messagesTo(recipient string) []xmpp.Message {
	var out []xmpp.Message
	for _, m := range f.sentMessages() {
		if m.To == recipient {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeTransport) sentPresences() []xmpp.Presence {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []xmpp.Presence
	for _, v := range f.sent {
		if p, ok := v.(xmpp.Presence); ok {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeTransport) sentRequests() []xmpp.IQ {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]xmpp.IQ(nil), f.requests...)
}

// fakeGuesser scripts language detection.
type fakeGuesser struct {
	tag string
	ok  bool
}

func (g fakeGuesser) Detect(string) (string, bool) {
	return g.tag, g.ok
}

// translationResult builds a well-formed service response.
func translationResult(id string, texts map[string]string) xmpp.IQ {
	var fields []xmpp.Field
	for lang, text := range texts {
		fields = append(fields, xmpp.Field{Var: lang, Values: []string{text}})
	}
	return xmpp.IQ{
		ID:   id,
		From: testService,
		Type: xmpp.IQResult,
		Command: &xmpp.AdHocCommand{
			Node:   "translate",
			Status: "completed",
			Form:   &xmpp.Form{Type: "result", Fields: fields},
		},
	}
}
