package xmpp

import (
	"context"
	"crypto/sha1"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"translate-muc/errors"
)

const stanzaBuffer = 32

// Component is a minimal XEP-0114 component stream: one TCP
// connection, a SHA-1 handshake, then a decode loop that turns
// inbound presence/message/iq elements into typed stanzas.
//
// IQ correlation: results whose id matches an outstanding RoundTrip
// are resolved directly and never reach the Stanzas channel. Send is
// safe for concurrent use; Run must be driven by a single goroutine.
type Component struct {
	domain string
	secret string
	log    *slog.Logger

	conn net.Conn
	dec  *xml.Decoder

	writeMu sync.Mutex
	enc     *xml.Encoder

	pendingMu sync.Mutex
	pending   map[string]chan IQ

	stanzas chan Stanza
}

// NewComponent wraps an established connection. Callers must run
// Handshake before using the stream.
func NewComponent(conn net.Conn, domain, secret string, log *slog.Logger) *Component {
	return &Component{
		domain:  domain,
		secret:  secret,
		log:     log,
		conn:    conn,
		dec:     xml.NewDecoder(conn),
		enc:     xml.NewEncoder(conn),
		pending: make(map[string]chan IQ),
		stanzas: make(chan Stanza, stanzaBuffer),
	}
}

// Dial connects to an XMPP server's component port and performs the
// XEP-0114 handshake for domain.
func Dial(ctx context.Context, addr, domain, secret string, log *slog.Logger) (*Component, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	c := NewComponent(conn, domain, secret, log)
	if err := c.Handshake(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// Handshake opens the stream and authenticates with the SHA-1 digest
// of the stream id and the shared secret.
func (c *Component) Handshake(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
		defer func() { _ = c.conn.SetDeadline(time.Time{}) }()
	}

	// Attributes are double-quoted: xml.EscapeText escapes the double
	// quote but leaves the apostrophe alone.
	header := fmt.Sprintf(
		`<?xml version='1.0'?><stream:stream xmlns="%s" xmlns:stream="%s" to="%s">`,
		NSComponent, NSStreams, escapeAttr(c.domain),
	)
	if _, err := c.conn.Write([]byte(header)); err != nil {
		return fmt.Errorf("writing stream header: %w", err)
	}

	streamID, err := c.readStreamID()
	if err != nil {
		return err
	}

	digest := sha1.Sum([]byte(streamID + c.secret))
	if _, err := fmt.Fprintf(c.conn, "<handshake>%x</handshake>", digest); err != nil {
		return fmt.Errorf("writing handshake: %w", err)
	}

	start, err := c.nextStartElement()
	if err != nil {
		return fmt.Errorf("reading handshake reply: %w", err)
	}
	if start.Name.Local != "handshake" {
		return fmt.Errorf("%w: got <%s>", errors.ErrHandshakeRefused, start.Name.Local)
	}
	if err := c.dec.Skip(); err != nil {
		return fmt.Errorf("reading handshake reply: %w", err)
	}

	c.log.Info("Component handshake accepted", "domain", c.domain)
	return nil
}

func (c *Component) readStreamID() (string, error) {
	start, err := c.nextStartElement()
	if err != nil {
		return "", fmt.Errorf("reading stream header: %w", err)
	}
	if start.Name.Local != "stream" {
		return "", fmt.Errorf("%w: expected stream header, got <%s>",
			errors.ErrProtocolViolation, start.Name.Local)
	}
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			return attr.Value, nil
		}
	}
	return "", fmt.Errorf("%w: stream header carries no id", errors.ErrProtocolViolation)
}

func (c *Component) nextStartElement() (xml.StartElement, error) {
	for {
		tok, err := c.dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

// Stanzas delivers inbound stanzas. The channel is closed when Run
// returns.
func (c *Component) Stanzas() <-chan Stanza {
	return c.stanzas
}

// Run decodes inbound stanzas until the stream breaks or ctx is done.
// Malformed payloads are logged and dropped, never fatal.
func (c *Component) Run(ctx context.Context) error {
	defer close(c.stanzas)
	defer c.failPending()

	for {
		tok, err := c.dec.Token()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", errors.ErrStreamClosed, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "presence":
			var p Presence
			if err := c.dec.DecodeElement(&p, &start); err != nil {
				c.log.Warn("Dropping malformed presence", "error", err)
				continue
			}
			if !c.deliver(ctx, &p) {
				return ctx.Err()
			}
		case "message":
			var m Message
			if err := c.dec.DecodeElement(&m, &start); err != nil {
				c.log.Warn("Dropping malformed message", "error", err)
				continue
			}
			if !c.deliver(ctx, &m) {
				return ctx.Err()
			}
		case "iq":
			var iq IQ
			if err := c.dec.DecodeElement(&iq, &start); err != nil {
				c.log.Warn("Dropping malformed iq", "error", err)
				continue
			}
			if c.resolve(iq) {
				continue
			}
			if !c.deliver(ctx, &iq) {
				return ctx.Err()
			}
		case "error":
			return fmt.Errorf("%w: stream error from server", errors.ErrStreamClosed)
		default:
			c.log.Debug("Skipping element", "name", start.Name.Local)
			if err := c.dec.Skip(); err != nil {
				return fmt.Errorf("%w: %v", errors.ErrStreamClosed, err)
			}
		}
	}
}

func (c *Component) deliver(ctx context.Context, st Stanza) bool {
	select {
	case c.stanzas <- st:
		return true
	case <-ctx.Done():
		return false
	}
}

// Send marshals one stanza onto the stream.
func (c *Component) Send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.enc.Encode(v); err != nil {
		return fmt.Errorf("encoding stanza: %w", err)
	}
	return nil
}

// RoundTrip sends iq and suspends until the correlated result or
// error response arrives, or ctx expires. A missing id is filled in.
func (c *Component) RoundTrip(ctx context.Context, iq IQ) (IQ, error) {
	if iq.ID == "" {
		iq.ID = uuid.NewString()
	}

	ch := make(chan IQ, 1)
	c.pendingMu.Lock()
	c.pending[iq.ID] = ch
	c.pendingMu.Unlock()

	if err := c.Send(iq); err != nil {
		c.forget(iq.ID)
		return IQ{}, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return IQ{}, errors.ErrStreamClosed
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(iq.ID)
		return IQ{}, ctx.Err()
	}
}

// resolve hands an inbound result to the matching RoundTrip, if any.
func (c *Component) resolve(iq IQ) bool {
	if iq.Type != IQResult && iq.Type != IQError {
		return false
	}

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	ch, ok := c.pending[iq.ID]
	if !ok {
		return false
	}
	delete(c.pending, iq.ID)
	ch <- iq
	return true
}

func (c *Component) forget(id string) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	delete(c.pending, id)
}

// failPending wakes every outstanding RoundTrip after the stream died.
func (c *Component) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Close ends the stream politely and drops the connection.
func (c *Component) Close() error {
	c.writeMu.Lock()
	_, _ = c.conn.Write([]byte("</stream:stream>"))
	c.writeMu.Unlock()
	return c.conn.Close()
}

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
