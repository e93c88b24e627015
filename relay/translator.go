package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"translate-muc/domain"
	"translate-muc/errors"
	"translate-muc/xmpp"
)

const translateNode = "translate"

const setLanguageNotice = `Set your language first: send "/lang <code>" (for example "/lang en"), then resend your message.`

// LanguageGuesser guesses a message's language for senders who never
// ran /lang. Optional; without one the sender only gets the notice.
type LanguageGuesser interface {
	Detect(text string) (string, bool)
}

// Translator turns one inbound groupchat body into one per-language
// delivery. It builds the ad-hoc "translate" command, awaits the
// correlated IQ result, and degrades gracefully when the service does
// not answer properly.
type Translator struct {
	host        string
	service     string
	rt          xmpp.IQRoundTripper
	timeout     time.Duration
	guesser     LanguageGuesser
	broadcaster *Broadcaster
	log         *slog.Logger
}

func NewTranslator(host, service string, rt xmpp.IQRoundTripper, timeout time.Duration,
	guesser LanguageGuesser, broadcaster *Broadcaster, log *slog.Logger) *Translator {
	return &Translator{
		host:        host,
		service:     service,
		rt:          rt,
		timeout:     timeout,
		guesser:     guesser,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Dispatch runs the translate-and-deliver pipeline for one message.
// The IQ round trip is the single suspension point of the relay, so
// callers run Dispatch in its own goroutine; everything it touches is
// read through the room's lock.
func (t *Translator) Dispatch(ctx context.Context, room *domain.Room, sender, nick, text string) {
	senderLang, err := room.LanguageOf(sender)
	if err != nil {
		// The sender left while the message was in flight.
		t.log.Warn("Dropping dispatch", "room", room.Name, "error", err)
		return
	}

	if senderLang == "" {
		senderLang = t.guessLanguage(room, sender, text)
	}
	if senderLang == "" {
		t.broadcaster.Notice(sender, room.Name, setLanguageNotice)
		return
	}

	targets := t.targets(room, senderLang)
	texts := t.Translate(ctx, senderLang, targets, text)
	t.deliver(room, sender, nick, texts)
}

// guessLanguage is the opt-in fallback for senders with no language:
// when the guess is reliable it becomes their selection.
func (t *Translator) guessLanguage(room *domain.Room, sender, text string) string {
	if t.guesser == nil {
		return ""
	}
	tag, ok := t.guesser.Detect(text)
	if !ok {
		return ""
	}
	if err := room.SetLanguage(sender, tag); err != nil {
		return ""
	}
	t.log.Info("Detected sender language", "room", room.Name, "language", tag)
	return tag
}

// targets is the distinct set of languages spoken in the room minus
// the sender's own; the original text already covers that one.
func (t *Translator) targets(room *domain.Room, senderLang string) []string {
	return lo.Without(lo.Keys(room.GroupByLanguage()), senderLang)
}

// Translate returns language -> text covering every target language
// plus the sender's own. An empty target set never leaves the process.
// On failure every target language gets a marked degraded copy; the
// sender's language always carries the original text verbatim.
func (t *Translator) Translate(ctx context.Context, senderLang string, targets []string, text string) map[string]string {
	if len(targets) == 0 {
		return map[string]string{senderLang: text}
	}

	rctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.rt.RoundTrip(rctx, t.buildRequest(senderLang, targets, text))
	if err == nil {
		var translated map[string]string
		if translated, err = parseResponse(resp); err == nil {
			// A partial answer still degrades the languages it skipped;
			// no target group goes silent.
			for _, lang := range targets {
				if _, ok := translated[lang]; !ok {
					t.log.Warn("Response missing target language", "service", t.service, "language", lang)
					translated[lang] = degradedText(text, senderLang)
				}
			}
			translated[senderLang] = text
			return translated
		}
	}

	t.log.Warn("Translation failed, delivering degraded copies",
		"service", t.service, "targets", len(targets), "error", err)

	texts := make(map[string]string, len(targets)+1)
	for _, lang := range targets {
		texts[lang] = degradedText(text, senderLang)
	}
	texts[senderLang] = text
	return texts
}

// buildRequest is the ad-hoc "translate" submission: in = sender's
// language, out = target languages, text = message body.
func (t *Translator) buildRequest(in string, out []string, text string) xmpp.IQ {
	return xmpp.IQ{
		ID:   uuid.NewString(),
		From: t.host,
		To:   t.service,
		Type: xmpp.IQSet,
		Command: &xmpp.AdHocCommand{
			Node:   translateNode,
			Status: "executing",
			Form: xmpp.SubmitForm(
				xmpp.Field{Var: "in", Values: []string{in}},
				xmpp.Field{Var: "out", Values: out},
				xmpp.Field{Var: "text", Values: []string{text}},
			),
		},
	}
}

// parseResponse validates the result shape and reads the form back as
// language -> translated text.
func parseResponse(iq xmpp.IQ) (map[string]string, error) {
	if iq.Type != xmpp.IQResult {
		return nil, fmt.Errorf("%w: response type %q", errors.ErrTranslationFailed, iq.Type)
	}
	if iq.Command == nil || iq.Command.Node != translateNode {
		return nil, fmt.Errorf("%w: response carries no translate command", errors.ErrTranslationFailed)
	}
	if iq.Command.Form == nil {
		return nil, fmt.Errorf("%w: response carries no form", errors.ErrTranslationFailed)
	}
	return iq.Command.Form.Pairs(), nil
}

// deliver sends each language's text to that language's participants,
// attributed to the sender's nickname. Participants with no language
// are never reached here, and the sender gets no echo of their own
// message.
func (t *Translator) deliver(room *domain.Room, sender, nick string, texts map[string]string) {
	groups := room.GroupByLanguage()
	for lang, text := range texts {
		for _, p := range groups[lang] {
			if p.Identity == sender {
				continue
			}
			t.broadcaster.One(p.Identity, room.Name, nick, text)
		}
	}
}

func degradedText(text, senderLang string) string {
	return fmt.Sprintf("%s (failed translation from %s)", text, senderLang)
}
