package domain

import "strings"

const commandPrefix = "/"

// Command is a chat command embedded in a message body.
// The grammar is a tagged variant: parse once, dispatch exhaustively.
type Command interface {
	isCommand()
}

// SetLanguage is "/lang <tag>". Tag is the rest of the line and is
// not validated beyond trimming.
type SetLanguage struct {
	Tag string
}

// Unknown carries the raw body of an unrecognized command so callers
// can log it. Handling it is a no-op.
type Unknown struct {
	Raw string
}

func (SetLanguage) isCommand() {}
func (Unknown) isCommand()     {}

// ParseCommand recognizes a leading "/" command in a message body,
// split as "command-name rest-of-line" on the first whitespace only.
// Non-command bodies return ok=false and fall through to translation
// dispatch.
func ParseCommand(body string) (Command, bool) {
	if !strings.HasPrefix(body, commandPrefix) {
		return nil, false
	}

	name, rest, _ := strings.Cut(strings.TrimPrefix(body, commandPrefix), " ")
	switch name {
	case "lang":
		return SetLanguage{Tag: strings.TrimSpace(rest)}, true
	default:
		return Unknown{Raw: body}, true
	}
}
