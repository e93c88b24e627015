package relay

import (
	"fmt"

	"mellium.im/xmpp/jid"

	"translate-muc/errors"
)

// splitTarget validates that a stanza destination is addressed to this
// component and splits it into room name (localpart) and nickname
// (resourcepart). A foreign destination host is a protocol violation:
// the stanza is dropped by the caller, never fatal.
func splitTarget(to, host string) (room, nick string, err error) {
	addr, err := jid.Parse(to)
	if err != nil {
		return "", "", fmt.Errorf("%w: destination %q: %v", errors.ErrProtocolViolation, to, err)
	}
	if addr.Domainpart() != host {
		return "", "", fmt.Errorf("%w: destination host %q is not %q",
			errors.ErrProtocolViolation, addr.Domainpart(), host)
	}
	return addr.Localpart(), addr.Resourcepart(), nil
}

// senderIdentity normalizes a stanza origin into the stable identity
// rooms are keyed by.
func senderIdentity(from string) (string, error) {
	addr, err := jid.Parse(from)
	if err != nil {
		return "", fmt.Errorf("%w: origin %q: %v", errors.ErrProtocolViolation, from, err)
	}
	return addr.String(), nil
}
