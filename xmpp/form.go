package xmpp

import "encoding/xml"

// Form is a jabber:x:data payload carried inside an ad-hoc command.
type Form struct {
	XMLName xml.Name `xml:"jabber:x:data x"`
	Type    string   `xml:"type,attr,omitempty"`
	Fields  []Field  `xml:"field"`
}

type Field struct {
	Var    string   `xml:"var,attr"`
	Type   string   `xml:"type,attr,omitempty"`
	Values []string `xml:"value"`
}

// SubmitForm builds a submit-type form from the given fields.
func SubmitForm(fields ...Field) *Form {
	return &Form{Type: "submit", Fields: fields}
}

// Value returns the first value of the named field.
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.Fields {
		if field.Var == name && len(field.Values) > 0 {
			return field.Values[0], true
		}
	}
	return "", false
}

// Pairs reads the form back as field name -> first value, the shape
// the translation service uses for language -> translated text.
// Fields with no value are skipped.
func (f *Form) Pairs() map[string]string {
	pairs := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		if len(field.Values) == 0 {
			continue
		}
		pairs[field.Var] = field.Values[0]
	}
	return pairs
}
