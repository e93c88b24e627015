// Package xmpp holds the wire-facing side of the relay: typed stanza
// payloads and the component stream they travel on. Handlers consume
// and produce these types; the stream does the XML framing.
package xmpp

import "encoding/xml"

// Namespaces used on the wire.
const (
	NSComponent = "jabber:component:accept"
	NSStreams   = "http://etherx.jabber.org/streams"
	NSMUCUser   = "http://jabber.org/protocol/muc#user"
	NSNick      = "http://jabber.org/protocol/nick"
	NSCommands  = "http://jabber.org/protocol/commands"
	NSDataForms = "jabber:x:data"
)

// Presence types. Availability is signalled by the absence of a type
// attribute.
const (
	PresenceAvailable   = ""
	PresenceUnavailable = "unavailable"
)

const MessageGroupChat = "groupchat"

// IQ types.
const (
	IQSet    = "set"
	IQResult = "result"
	IQError  = "error"
)

// Stanza is one of *Presence, *Message or *IQ as read off the stream.
type Stanza any

// Presence signals a participant's availability in a room.
// Outbound roster announcements carry the muc#user extension.
type Presence struct {
	XMLName xml.Name `xml:"presence"`
	From    string   `xml:"from,attr,omitempty"`
	To      string   `xml:"to,attr,omitempty"`
	Type    string   `xml:"type,attr,omitempty"`
	MUCUser *MUCUser `xml:"http://jabber.org/protocol/muc#user x,omitempty"`
}

// MUCUser is the muc#user <x/> extension on occupant presence.
type MUCUser struct {
	XMLName xml.Name `xml:"http://jabber.org/protocol/muc#user x"`
	Item    MUCItem  `xml:"item"`
}

type MUCItem struct {
	Affiliation string `xml:"affiliation,attr"`
	Role        string `xml:"role,attr"`
}

// Message is a chat message. Relayed copies are type=groupchat, sent
// from room@component/nickname with the speaker's nickname repeated in
// the nick extension.
type Message struct {
	XMLName xml.Name `xml:"message"`
	From    string   `xml:"from,attr,omitempty"`
	To      string   `xml:"to,attr,omitempty"`
	Type    string   `xml:"type,attr,omitempty"`
	Body    string   `xml:"body,omitempty"`
	Nick    *Nick    `xml:"http://jabber.org/protocol/nick x,omitempty"`
}

// Nick carries the speaker's nickname on a relayed message.
type Nick struct {
	XMLName xml.Name `xml:"http://jabber.org/protocol/nick x"`
	Value   string   `xml:",chardata"`
}

// IQ is a correlated request/response stanza. The relay only ever
// exchanges ad-hoc command payloads with the translation service.
type IQ struct {
	XMLName xml.Name      `xml:"iq"`
	ID      string        `xml:"id,attr,omitempty"`
	From    string        `xml:"from,attr,omitempty"`
	To      string        `xml:"to,attr,omitempty"`
	Type    string        `xml:"type,attr,omitempty"`
	Command *AdHocCommand `xml:"http://jabber.org/protocol/commands command,omitempty"`
}

// AdHocCommand is the XEP-0050 <command/> element wrapping a data
// form submission or result.
type AdHocCommand struct {
	XMLName xml.Name `xml:"http://jabber.org/protocol/commands command"`
	Node    string   `xml:"node,attr"`
	Status  string   `xml:"status,attr,omitempty"`
	Form    *Form    `xml:"jabber:x:data x,omitempty"`
}
