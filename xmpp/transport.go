//go:generate go run go.uber.org/mock/mockgen -source=transport.go -destination=../mocks/mock_transport.go -package=mocks
package xmpp

import "context"

// Sender pushes one outbound stanza onto the stream.
type Sender interface {
	Send(v any) error
}

// IQRoundTripper sends an IQ and suspends the caller until the
// correlated result arrives or ctx expires. Implementations must not
// block the stream's read loop while a request is outstanding.
type IQRoundTripper interface {
	RoundTrip(ctx context.Context, iq IQ) (IQ, error)
}

// Transport is the full stream surface the relay needs.
type Transport interface {
	Sender
	IQRoundTripper
}
