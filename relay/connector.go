package relay

import (
	"context"
	"fmt"
	"log/slog"

	"translate-muc/xmpp"
)

// Connector dials the server's component port and runs one Session
// per connection. Run returns on stream failure so the supervisor can
// restart it; each restart re-dials and starts from a clean registry.
type Connector struct {
	addr   string
	host   string
	secret string
	opts   Options
	log    *slog.Logger
}

func NewConnector(addr, host, secret string, opts Options, log *slog.Logger) *Connector {
	return &Connector{addr: addr, host: host, secret: secret, opts: opts, log: log}
}

func (c *Connector) Run(ctx context.Context) error {
	comp, err := xmpp.Dial(ctx, c.addr, c.host, c.secret, c.log)
	if err != nil {
		return fmt.Errorf("component dial: %w", err)
	}
	defer comp.Close()

	session := NewSession(c.host, comp, c.opts, c.log)

	streamErr := make(chan error, 1)
	go func() { streamErr <- comp.Run(ctx) }()

	if err := session.Run(ctx, comp.Stanzas()); err != nil {
		return err
	}
	// The stanza channel closed under the session; surface why.
	return <-streamErr
}
