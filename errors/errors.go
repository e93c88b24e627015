package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrNotAMember        = fmt.Errorf("sender is not a member of the room")
	ErrNotFound          = fmt.Errorf("no participant for this address")
	ErrProtocolViolation = fmt.Errorf("stanza violates the component protocol")
	ErrTranslationFailed = fmt.Errorf("translation service failure")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
	ErrStreamClosed      = fmt.Errorf("component stream closed")
	ErrHandshakeRefused  = fmt.Errorf("component handshake refused")
)
